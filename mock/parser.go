package mock

import "github.com/fwojciec/doclink"

var _ doclink.Parser = (*Parser)(nil)

// Parser is a mock implementation of doclink.Parser.
type Parser struct {
	ParseFn func(data []byte, path string) (*doclink.DocumentNode, error)
}

func (p *Parser) Parse(data []byte, path string) (*doclink.DocumentNode, error) {
	return p.ParseFn(data, path)
}
