package tsparse

import (
	"context"
	"path"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/matzehuels/compcheck/pkg/errors"
	"github.com/matzehuels/compcheck/pkg/syntax"
)

// DefaultMaxFileSize is the largest file Parse accepts unless configured
// otherwise.
const DefaultMaxFileSize = 4 * 1024 * 1024

// Extensions lists the file extensions the parser handles.
var Extensions = []string{".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs"}

// Supported reports whether p has a handled extension.
func Supported(p string) bool {
	ext := path.Ext(p)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// IsExternal reports whether p is a declaration file or third-party code.
// External units are linked but not checked.
func IsExternal(p string) bool {
	return strings.HasSuffix(p, ".d.ts") || strings.Contains("/"+p, "/node_modules/")
}

// Option configures a [Parser].
type Option func(*Parser)

// WithMaxFileSize sets the size limit. Non-positive values are ignored.
func WithMaxFileSize(bytes int64) Option {
	return func(p *Parser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// Parser converts source files. It is safe for concurrent use; every call
// creates its own tree-sitter parser.
type Parser struct {
	maxFileSize int64
}

// NewParser returns a parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// File is one parsed source file.
type File struct {
	Path   string
	Root   *syntax.Node
	Module *Module

	// HasErrors is set when tree-sitter recovered from syntax errors. The
	// tree is still usable.
	HasErrors bool
}

// Parse parses content as the file at p (slash separated, relative to the
// project root).
func (p *Parser) Parse(ctx context.Context, filePath string, content []byte) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if int64(len(content)) > p.maxFileSize {
		return nil, errors.New(errors.ErrCodeFileTooLarge, "%s: size %d exceeds limit %d", filePath, len(content), p.maxFileSize)
	}
	if !utf8.Valid(content) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: content is not valid UTF-8", filePath)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(language(filePath))

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, err, "parse %s", filePath)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, errors.New(errors.ErrCodeParseFailed, "%s: empty syntax tree", filePath)
	}

	c := &converter{path: filePath, src: content}
	f := &File{
		Path:      filePath,
		Root:      c.program(root),
		Module:    scanModule(filePath, root, content),
		HasErrors: root.HasError(),
	}
	syntax.Link(f.Root)
	return f, nil
}

func language(p string) *sitter.Language {
	switch path.Ext(p) {
	case ".tsx":
		return tsx.GetLanguage()
	case ".js", ".jsx", ".mjs", ".cjs":
		return javascript.GetLanguage()
	default:
		return typescript.GetLanguage()
	}
}
