// Copyright 2024 The Schemac Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import "github.com/protolink/schemac/schema"

func (p *parser) parseService(file *schema.ProtoFile) error {
	doc := p.cur.Doc
	loc := p.cur.Pos
	if err := p.expectKeyword("service"); err != nil {
		return err
	}
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	qn := qualifiedPrefix(file.PackageName, name)
	svc := &schema.Service{QualifiedName: qn, Location: loc, Doc: doc}

	if err := p.expectSymbol('{'); err != nil {
		return err
	}
	for !p.cur.IsSymbol('}') {
		if p.cur.Kind == TokenEOF {
			return p.errf("unexpected end of file inside service %q", qn)
		}
		if err := p.serviceElement(svc); err != nil {
			return err
		}
	}
	if err := p.expectSymbol('}'); err != nil {
		return err
	}
	file.Services = append(file.Services, svc)
	return nil
}

func (p *parser) serviceElement(svc *schema.Service) error {
	switch {
	case p.cur.IsSymbol(';'):
		return p.advance()
	case p.cur.IsKeyword("option"):
		opt, err := p.parseOptionDecl()
		if err != nil {
			return err
		}
		svc.Options = append(svc.Options, opt)
		return nil
	case p.cur.IsKeyword("rpc"):
		return p.parseRpc(svc)
	default:
		return p.errf("unexpected token %q in service body", p.cur.Text)
	}
}

func (p *parser) parseRpc(svc *schema.Service) error {
	doc := p.cur.Doc
	loc := p.cur.Pos
	if err := p.expectKeyword("rpc"); err != nil {
		return err
	}
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	if err := p.expectSymbol('('); err != nil {
		return err
	}
	reqStream, err := p.tryConsumeKeyword("stream")
	if err != nil {
		return err
	}
	reqType, err := p.qualifiedIdent()
	if err != nil {
		return err
	}
	if err := p.expectSymbol(')'); err != nil {
		return err
	}
	if err := p.expectKeyword("returns"); err != nil {
		return err
	}
	if err := p.expectSymbol('('); err != nil {
		return err
	}
	respStream, err := p.tryConsumeKeyword("stream")
	if err != nil {
		return err
	}
	respType, err := p.qualifiedIdent()
	if err != nil {
		return err
	}
	if err := p.expectSymbol(')'); err != nil {
		return err
	}

	rpc := &schema.Rpc{
		Name:              name,
		Request:           schema.UnresolvedRef(reqType),
		Response:          schema.UnresolvedRef(respType),
		RequestStreaming:  reqStream,
		ResponseStreaming: respStream,
		Doc:               doc,
		Location:          loc,
	}

	if ok, err := p.tryConsumeSymbol(';'); err != nil {
		return err
	} else if ok {
		svc.Rpcs = append(svc.Rpcs, rpc)
		return nil
	}

	if err := p.expectSymbol('{'); err != nil {
		return err
	}
	for !p.cur.IsSymbol('}') {
		if p.cur.Kind == TokenEOF {
			return p.errf("unexpected end of file inside rpc %q", name)
		}
		if p.cur.IsSymbol(';') {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		opt, err := p.parseOptionDecl()
		if err != nil {
			return err
		}
		rpc.Options = append(rpc.Options, opt)
	}
	if err := p.expectSymbol('}'); err != nil {
		return err
	}
	svc.Rpcs = append(svc.Rpcs, rpc)
	return nil
}
