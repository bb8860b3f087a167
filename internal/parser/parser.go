package parser

import (
	"math"
	"strconv"

	"github.com/HicaroD/herb/internal/ast"
	"github.com/HicaroD/herb/internal/diagnostics"
	"github.com/HicaroD/herb/internal/lexer"
	"github.com/HicaroD/herb/internal/lexer/token"
)

type Parser struct {
	lex       *lexer.Lexer
	collector *diagnostics.Collector

	arena *ast.Arena
	// last is the most recently consumed token, used to close spans.
	last *token.Token
}

func New(collector *diagnostics.Collector) *Parser {
	parser := new(Parser)
	parser.lex = nil
	parser.collector = collector
	return parser
}

// Useful for testing
func NewWithLex(lex *lexer.Lexer, collector *diagnostics.Collector) *Parser {
	return &Parser{lex: lex, collector: collector}
}

// ParseFile parses the module stored at path. Path is recorded as is on the
// module and on every position.
func (p *Parser) ParseFile(path string) (*ast.Module, error) {
	lex, err := lexer.NewFromFilePath(path, p.collector)
	if err != nil {
		return nil, err
	}
	p.lex = lex
	return p.ParseModule(path)
}

// ParseModuleFrom parses src as if it were the contents of filename.
func ParseModuleFrom(filename, src string, collector *diagnostics.Collector) (*ast.Module, error) {
	lex := lexer.New(filename, []byte(src), collector)
	p := NewWithLex(lex, collector)
	return p.ParseModule(filename)
}

func ParseExprFrom(expr, filename string) (*ast.Node, error) {
	collector := diagnostics.New()
	lex := lexer.New(filename, []byte(expr), collector)
	p := NewWithLex(lex, collector)
	p.arena = ast.NewArena()
	return p.parseExpr()
}

func (p *Parser) ParseModule(path string) (*ast.Module, error) {
	p.arena = ast.NewArena()
	root, mod := ast.NewModule(path, p.arena)

	for p.lex.NextIs(token.IMPORT) {
		imp, err := p.parseImport()
		if err != nil {
			return nil, err
		}
		mod.Imports = append(mod.Imports, imp)
	}

	for {
		tok := p.lex.Peek()
		if tok.Kind == token.EOF {
			break
		}

		var decl *ast.Node
		var err error

		switch tok.Kind {
		case token.VAR, token.CONST:
			decl, err = p.parseVarDecl(true)
		case token.FN:
			decl, err = p.parseFnDecl()
		case token.ENTRYPOINT:
			decl, err = p.parseEntrypoint()
		case token.IMPORT:
			return nil, p.errorf(tok.Pos, "imports must come before every declaration")
		default:
			if tok.Kind == token.INVALID {
				p.advance()
				return nil, diagnostics.COMPILER_ERROR_FOUND
			}
			return nil, p.errorf(tok.Pos, "expected declaration, not %s", tok.Kind)
		}
		if err != nil {
			return nil, err
		}
		mod.Decls = append(mod.Decls, decl)
	}

	ast.SetParents(root)
	return mod, nil
}

func (p *Parser) parseImport() (*ast.Node, error) {
	importTok := p.advance()

	imp := new(ast.Import)

	if p.lex.NextIs(token.ID) && p.lex.Peek1().Kind == token.EQUAL {
		alias := p.advance()
		p.advance() // =
		imp.Alias = alias.Name()
	}

	if p.lex.NextIs(token.DOT) {
		p.advance()
		imp.IsRelative = true
	}

	for {
		segment, err := p.mustExpect(token.ID, "import path segment")
		if err != nil {
			return nil, err
		}
		imp.Path = append(imp.Path, segment.Name())

		if !p.lex.NextIs(token.DOT) {
			break
		}
		p.advance()
	}

	if _, err := p.mustExpect(token.SEMICOLON, "; at the end of import"); err != nil {
		return nil, err
	}

	return p.arena.New(ast.KIND_IMPORT, p.span(importTok.Pos), imp), nil
}

func (p *Parser) parseVarDecl(global bool) (*ast.Node, error) {
	keyword := p.advance()

	name, err := p.mustExpect(token.ID, "variable name")
	if err != nil {
		return nil, err
	}

	decl := &ast.VarDecl{
		Name:    name.Name(),
		Mutable: keyword.Kind == token.VAR,
		Global:  global,
	}

	if p.lex.NextIs(token.COLON) {
		p.advance()
		// "const x: = 1;" leaves the type to inference
		if !p.lex.NextIs(token.EQUAL) {
			ty, err := p.parseExprType()
			if err != nil {
				return nil, err
			}
			decl.Annotation = ty
		}
	}

	if _, err := p.mustExpect(token.EQUAL, "= after variable name"); err != nil {
		return nil, err
	}

	init, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	decl.Init = init

	if _, err := p.mustExpect(token.SEMICOLON, "; at the end of statement"); err != nil {
		return nil, err
	}

	return p.arena.New(ast.KIND_VAR_DECL, p.span(keyword.Pos), decl), nil
}

func (p *Parser) parseFnDecl() (*ast.Node, error) {
	fnTok := p.advance()

	name, err := p.mustExpect(token.ID, "function name")
	if err != nil {
		return nil, err
	}

	args, err := p.parseFunctionParams()
	if err != nil {
		return nil, err
	}

	retType, err := p.parseReturnType()
	if err != nil {
		return nil, err
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	fn := &ast.FnDecl{
		Name:    name.Name(),
		Args:    args,
		RetType: retType,
		Block:   block,
	}
	return p.arena.New(ast.KIND_FN_DECL, p.span(fnTok.Pos), fn), nil
}

func (p *Parser) parseFunctionParams() ([]*ast.Node, error) {
	if _, err := p.mustExpect(token.OPEN_PAREN, "( after function name"); err != nil {
		return nil, err
	}

	var args []*ast.Node
	for !p.lex.NextIs(token.CLOSE_PAREN) {
		name, err := p.mustExpect(token.ID, "parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.mustExpect(token.COLON, ": after parameter name"); err != nil {
			return nil, err
		}
		ty, err := p.parseExprType()
		if err != nil {
			return nil, err
		}
		arg := &ast.ArgDecl{Name: name.Name(), Ty: ty}
		args = append(args, p.arena.New(ast.KIND_ARG_DECL, p.span(name.Pos), arg))

		if !p.lex.NextIs(token.COMMA) {
			break
		}
		p.advance()
	}

	if _, err := p.mustExpect(token.CLOSE_PAREN, ") after parameters"); err != nil {
		return nil, err
	}
	return args, nil
}

// parseReturnType parses an optional ": type". No return type means void.
func (p *Parser) parseReturnType() (*ast.Ty, error) {
	if !p.lex.NextIs(token.COLON) {
		return ast.VOID_TY, nil
	}
	p.advance()
	return p.parseExprType()
}

func (p *Parser) parseEntrypoint() (*ast.Node, error) {
	keyword := p.advance()
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return p.arena.New(ast.KIND_ENTRYPOINT, p.span(keyword.Pos), &ast.Entrypoint{Block: block}), nil
}

func (p *Parser) parseExprType() (*ast.Ty, error) {
	tok := p.lex.Peek()
	switch {
	case tok.Kind.IsBasicType():
		p.advance()
		return ast.NewBasicType(tok.Kind), nil
	case tok.Kind == token.FN:
		p.advance()
		if _, err := p.mustExpect(token.OPEN_PAREN, "( in function type"); err != nil {
			return nil, err
		}
		var args []*ast.Ty
		for !p.lex.NextIs(token.CLOSE_PAREN) {
			arg, err := p.parseExprType()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.lex.NextIs(token.COMMA) {
				break
			}
			p.advance()
		}
		if _, err := p.mustExpect(token.CLOSE_PAREN, ") in function type"); err != nil {
			return nil, err
		}
		ret, err := p.parseReturnType()
		if err != nil {
			return nil, err
		}
		return ast.NewFuncTy(args, ret), nil
	}
	return nil, p.errorf(tok.Pos, "expected type, not %s", tok.Kind)
}

func (p *Parser) parseBlock() (*ast.Node, error) {
	openCurly, err := p.mustExpect(token.OPEN_CURLY, "{")
	if err != nil {
		return nil, err
	}

	var statements []*ast.Node
	for {
		tok := p.lex.Peek()
		if tok.Kind == token.CLOSE_CURLY || tok.Kind == token.EOF {
			break
		}

		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	if _, err := p.mustExpect(token.CLOSE_CURLY, "statement or }"); err != nil {
		return nil, err
	}

	block := &ast.BlockStmt{Statements: statements}
	return p.arena.New(ast.KIND_BLOCK_STMT, p.span(openCurly.Pos), block), nil
}

func (p *Parser) parseStmt() (*ast.Node, error) {
	tok := p.lex.Peek()
	switch tok.Kind {
	case token.VAR, token.CONST:
		return p.parseVarDecl(false)
	case token.IF:
		return p.parseCondStmt()
	case token.WHILE:
		return p.parseWhileLoop()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.OPEN_CURLY:
		return p.parseBlock()
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	var stmt *ast.Node
	if p.lex.NextIs(token.EQUAL) {
		p.advance()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt = p.arena.New(ast.KIND_ASSIGN_STMT, token.Span{}, &ast.AssignStmt{Target: expr, Value: value})
	} else {
		stmt = p.arena.New(ast.KIND_EXPR_STMT, token.Span{}, &ast.ExprStmt{Expr: expr})
	}

	if _, err := p.mustExpect(token.SEMICOLON, "; at the end of statement"); err != nil {
		return nil, err
	}
	stmt.Span = p.span(tok.Pos)
	return stmt, nil
}

func (p *Parser) parseReturnStmt() (*ast.Node, error) {
	returnTok := p.advance()

	ret := new(ast.ReturnStmt)
	if !p.lex.NextIs(token.SEMICOLON) {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ret.Value = value
	}

	if _, err := p.mustExpect(token.SEMICOLON, "; at the end of statement"); err != nil {
		return nil, err
	}
	return p.arena.New(ast.KIND_RETURN_STMT, p.span(returnTok.Pos), ret), nil
}

func (p *Parser) parseCondStmt() (*ast.Node, error) {
	ifTok := p.advance()

	cond := new(ast.IfStmt)

	branch, err := p.parseCondBranch()
	if err != nil {
		return nil, err
	}
	cond.Branches = append(cond.Branches, branch)

	for p.lex.NextIs(token.ELSE) {
		p.advance()
		if p.lex.NextIs(token.IF) {
			p.advance()
			branch, err := p.parseCondBranch()
			if err != nil {
				return nil, err
			}
			cond.Branches = append(cond.Branches, branch)
			continue
		}

		elseBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		cond.Else = elseBlock
		break
	}

	return p.arena.New(ast.KIND_IF_STMT, p.span(ifTok.Pos), cond), nil
}

func (p *Parser) parseCondBranch() (*ast.CondBranch, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.CondBranch{Cond: expr, Block: block}, nil
}

func (p *Parser) parseWhileLoop() (*ast.Node, error) {
	whileTok := p.advance()

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	loop := &ast.WhileLoop{Cond: cond, Block: block}
	return p.arena.New(ast.KIND_WHILE_LOOP_STMT, p.span(whileTok.Pos), loop), nil
}

func (p *Parser) parseExpr() (*ast.Node, error) {
	return p.parseBinary(0)
}

// parseBinary parses a left-associative chain of operators at the given
// precedence level.
func (p *Parser) parseBinary(level int) (*ast.Node, error) {
	if level == len(ast.BINARY_PRECEDENCE) {
		return p.parseUnary()
	}

	start := p.lex.Peek().Pos
	lhs, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		next := p.lex.Peek()
		if !ast.BINARY_PRECEDENCE[level][next.Kind] {
			break
		}
		p.advance()

		rhs, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}

		binary := &ast.BinaryExpr{Left: lhs, Op: next.Kind, Right: rhs}
		lhs = p.arena.New(ast.KIND_BINARY_EXPR, p.span(start), binary)
	}
	return lhs, nil
}

func (p *Parser) parseUnary() (*ast.Node, error) {
	next := p.lex.Peek()
	if !ast.UNARY[next.Kind] {
		return p.parsePostfix()
	}
	p.advance()

	// negative integer literals stay literals
	if next.Kind == token.MINUS && p.lex.NextIs(token.INTEGER_LITERAL) {
		lit := p.advance()
		value, err := p.parseIntLiteral(lit, true)
		if err != nil {
			return nil, err
		}
		return p.arena.New(ast.KIND_INT_LITERAL, p.span(next.Pos), &ast.IntLiteral{Value: value}), nil
	}

	value, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	unary := &ast.UnaryExpr{Op: next.Kind, Value: value}
	return p.arena.New(ast.KIND_UNARY_EXPR, p.span(next.Pos), unary), nil
}

func (p *Parser) parsePostfix() (*ast.Node, error) {
	start := p.lex.Peek().Pos
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.lex.Peek().Kind {
		case token.OPEN_PAREN:
			p.advance()
			args, err := p.parseExprList(token.CLOSE_PAREN)
			if err != nil {
				return nil, err
			}
			if _, err := p.mustExpect(token.CLOSE_PAREN, ") after arguments"); err != nil {
				return nil, err
			}
			call := &ast.FnCall{Callee: expr, Args: args}
			expr = p.arena.New(ast.KIND_FN_CALL, p.span(start), call)
		case token.DOT:
			p.advance()
			member, err := p.mustExpect(token.ID, "member name after .")
			if err != nil {
				return nil, err
			}
			access := &ast.MemberExpr{Receiver: expr, Name: member.Name()}
			expr = p.arena.New(ast.KIND_MEMBER_EXPR, p.span(start), access)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (*ast.Node, error) {
	tok := p.lex.Peek()
	switch tok.Kind {
	case token.ID:
		p.advance()
		return p.arena.New(ast.KIND_ID_EXPR, p.span(tok.Pos), &ast.IdExpr{Name: tok.Name()}), nil
	case token.INTEGER_LITERAL:
		p.advance()
		value, err := p.parseIntLiteral(tok, false)
		if err != nil {
			return nil, err
		}
		return p.arena.New(ast.KIND_INT_LITERAL, p.span(tok.Pos), &ast.IntLiteral{Value: value}), nil
	case token.STRING_LITERAL:
		p.advance()
		return p.arena.New(ast.KIND_STR_LITERAL, p.span(tok.Pos), &ast.StrLiteral{Value: string(tok.Lexeme)}), nil
	case token.TRUE_BOOL_LITERAL, token.FALSE_BOOL_LITERAL:
		p.advance()
		lit := &ast.BoolLiteral{Value: tok.Kind == token.TRUE_BOOL_LITERAL}
		return p.arena.New(ast.KIND_BOOL_LITERAL, p.span(tok.Pos), lit), nil
	case token.OPEN_PAREN:
		p.advance() // (
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.mustExpect(token.CLOSE_PAREN, "closing parenthesis"); err != nil {
			return nil, err
		}
		return expr, nil
	case token.INVALID:
		p.advance()
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}
	return nil, p.errorf(tok.Pos, "expected expression, not %s", tok.Kind)
}

func (p *Parser) parseIntLiteral(tok *token.Token, negative bool) (int64, error) {
	limit := uint64(math.MaxInt32)
	if negative {
		limit++
	}
	value, err := strconv.ParseUint(string(tok.Lexeme), 10, 64)
	if err != nil || value > limit {
		return 0, p.errorf(tok.Pos, "integer literal %s does not fit in int", tok.Lexeme)
	}
	if negative {
		return -int64(value), nil
	}
	return int64(value), nil
}

func (p *Parser) parseExprList(end token.Kind) ([]*ast.Node, error) {
	var exprs []*ast.Node
	for !p.lex.NextIs(end) {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)

		if !p.lex.NextIs(token.COMMA) {
			break
		}
		p.advance()
	}
	return exprs, nil
}

func (p *Parser) advance() *token.Token {
	tok := p.lex.Next()
	p.last = tok
	return tok
}

func (p *Parser) expect(expectedKind token.Kind) (*token.Token, bool) {
	tok := p.lex.Peek()
	if tok.Kind != expectedKind {
		return tok, false
	}
	p.advance()
	return tok, true
}

// mustExpect consumes a token of the given kind or reports what was expected
// instead.
func (p *Parser) mustExpect(expectedKind token.Kind, what string) (*token.Token, error) {
	tok, ok := p.expect(expectedKind)
	if !ok {
		if tok.Kind == token.INVALID {
			p.advance()
			return nil, diagnostics.COMPILER_ERROR_FOUND
		}
		return nil, p.errorf(tok.Pos, "expected %s, not %s", what, tok.Kind)
	}
	return tok, nil
}

func (p *Parser) errorf(pos token.Pos, format string, args ...any) error {
	p.collector.Report(diagnostics.SYNTAX, pos, "", format, args...)
	return diagnostics.COMPILER_ERROR_FOUND
}

func (p *Parser) span(start token.Pos) token.Span {
	end := start
	if p.last != nil {
		end = p.last.Span().End
	}
	return token.NewSpan(start, end)
}
