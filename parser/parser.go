package parser

import (
	"mypl/ast"
	"mypl/lexer"
	"mypl/mplerr"
	"mypl/token"
)

// Parser consumes a lexer.Lexer's token stream with one-token
// lookahead, reusing the teacher's peek/consume/match helper shape
// but walking spec.md's grammar rather than a C-like one.
type Parser struct {
	lex  *lexer.Lexer
	curr token.Token
}

// New constructs a Parser over src. It primes curr with the first
// token, so construction itself can fail with a LEXER error.
func New(src string) (*Parser, error) {
	p := &Parser{lex: lexer.New(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.curr = tok
	return nil
}

func (p *Parser) errorf(msg string) error {
	return mplerr.At(mplerr.Syntax, msg+", found '"+p.curr.Lexeme+"'", p.curr)
}

// eat consumes curr if it matches kind, or fails with a SYNTAX error.
func (p *Parser) eat(kind token.Kind, what string) (token.Token, error) {
	if p.curr.Kind != kind {
		return token.Token{}, p.errorf("expected " + what)
	}
	tok := p.curr
	if err := p.advance(); err != nil {
		return token.Token{}, err
	}
	return tok, nil
}

func (p *Parser) at(kind token.Kind) bool {
	return p.curr.Kind == kind
}

// Parse consumes the whole token stream into a Program; the next
// token after the last declaration must be EOS.
func Parse(src string) (*ast.Program, error) {
	p, err := New(src)
	if err != nil {
		return nil, err
	}
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.at(token.EOS) {
		var decl ast.Decl
		var err error
		if p.at(token.TYPE) {
			decl, err = p.parseTypeDecl()
		} else {
			decl, err = p.parseFunDecl()
		}
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, decl)
	}
	if _, err := p.eat(token.EOS, "end-of-file"); err != nil {
		return nil, err
	}
	return prog, nil
}

// tdecl := "type" ID vdecl* "end"
func (p *Parser) parseTypeDecl() (*ast.TypeDecl, error) {
	if _, err := p.eat(token.TYPE, "'type'"); err != nil {
		return nil, err
	}
	id, err := p.eat(token.ID, "type name")
	if err != nil {
		return nil, err
	}
	node := &ast.TypeDecl{ID: id}
	for p.at(token.VAR) {
		vd, err := p.parseVarDeclStmt()
		if err != nil {
			return nil, err
		}
		node.VDecls = append(node.VDecls, vd)
	}
	if _, err := p.eat(token.END, "'end'"); err != nil {
		return nil, err
	}
	return node, nil
}

// fdecl := "fun" (dtype | "nil") ID "(" [param ("," param)*] ")" stmt* "end"
func (p *Parser) parseFunDecl() (*ast.FunDecl, error) {
	if _, err := p.eat(token.FUN, "'fun'"); err != nil {
		return nil, err
	}
	var retType token.Token
	var err error
	if p.at(token.NIL) {
		retType, err = p.eat(token.NIL, "'nil'")
	} else {
		retType, err = p.parseDtype()
	}
	if err != nil {
		return nil, err
	}
	id, err := p.eat(token.ID, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	var params []ast.FunParam
	if p.at(token.ID) {
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		for p.at(token.COMMA) {
			if _, err := p.advanceConsuming(); err != nil {
				return nil, err
			}
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
		}
	}
	if _, err := p.eat(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	stmts, err := p.parseStmts()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.END, "'end'"); err != nil {
		return nil, err
	}
	return &ast.FunDecl{ReturnType: retType, ID: id, Params: params, Stmts: stmts}, nil
}

func (p *Parser) advanceConsuming() (token.Token, error) {
	tok := p.curr
	return tok, p.advance()
}

// param := ID ":" dtype
func (p *Parser) parseParam() (ast.FunParam, error) {
	id, err := p.eat(token.ID, "parameter name")
	if err != nil {
		return ast.FunParam{}, err
	}
	if _, err := p.eat(token.COLON, "':'"); err != nil {
		return ast.FunParam{}, err
	}
	typ, err := p.parseDtype()
	if err != nil {
		return ast.FunParam{}, err
	}
	return ast.FunParam{ID: id, Type: typ}, nil
}

// dtype := "int" | "double" | "bool" | "char" | "string" | ID
func (p *Parser) parseDtype() (token.Token, error) {
	if !dtypeKinds[p.curr.Kind] {
		return token.Token{}, p.errorf("expected a type")
	}
	return p.advanceConsuming()
}

// stmt* — the fixed first-set of statements.
func (p *Parser) parseStmts() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for p.at(token.VAR) || p.at(token.ID) || p.at(token.IF) ||
		p.at(token.WHILE) || p.at(token.RETURN) || p.at(token.FOR) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch {
	case p.at(token.VAR):
		return p.parseVarDeclStmt()
	case p.at(token.IF):
		return p.parseIfStmt()
	case p.at(token.WHILE):
		return p.parseWhileStmt()
	case p.at(token.FOR):
		return p.parseForStmt()
	case p.at(token.RETURN):
		return p.parseReturnStmt()
	default:
		return p.parseCallOrAssignStmt()
	}
}

// vdecl := "var" ID [":" dtype] "=" expr
func (p *Parser) parseVarDeclStmt() (*ast.VarDeclStmt, error) {
	if _, err := p.eat(token.VAR, "'var'"); err != nil {
		return nil, err
	}
	id, err := p.eat(token.ID, "variable name")
	if err != nil {
		return nil, err
	}
	node := &ast.VarDeclStmt{ID: id}
	if p.at(token.COLON) {
		if _, err := p.advanceConsuming(); err != nil {
			return nil, err
		}
		typ, err := p.parseDtype()
		if err != nil {
			return nil, err
		}
		node.Type = &typ
	}
	if _, err := p.eat(token.ASSIGN, "'='"); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	node.Expr = e
	return node, nil
}

// The statement-disambiguation rule from spec.md §4.2: after a
// leading ID, a following '(' commits to a call statement; a ".id"*
// run followed by "=" commits to an assignment.
func (p *Parser) parseCallOrAssignStmt() (ast.Stmt, error) {
	id, err := p.eat(token.ID, "statement")
	if err != nil {
		return nil, err
	}
	if p.at(token.LPAREN) {
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{FunctionID: id, Args: args}, nil
	}
	path := []token.Token{id}
	for p.at(token.DOT) {
		if _, err := p.advanceConsuming(); err != nil {
			return nil, err
		}
		field, err := p.eat(token.ID, "field name")
		if err != nil {
			return nil, err
		}
		path = append(path, field)
	}
	if _, err := p.eat(token.ASSIGN, "'='"); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.AssignStmt{LValuePath: path, Expr: e}, nil
}

// if := "if" expr "then" stmt* ("elseif" expr "then" stmt*)* ["else" stmt*] "end"
func (p *Parser) parseIfStmt() (*ast.IfStmt, error) {
	if _, err := p.eat(token.IF, "'if'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.THEN, "'then'"); err != nil {
		return nil, err
	}
	body, err := p.parseStmts()
	if err != nil {
		return nil, err
	}
	node := &ast.IfStmt{IfPart: ast.CondBlock{Expr: cond, Stmts: body}}
	for p.at(token.ELSEIF) {
		if _, err := p.advanceConsuming(); err != nil {
			return nil, err
		}
		econd, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.THEN, "'then'"); err != nil {
			return nil, err
		}
		ebody, err := p.parseStmts()
		if err != nil {
			return nil, err
		}
		node.ElseIfs = append(node.ElseIfs, ast.CondBlock{Expr: econd, Stmts: ebody})
	}
	if p.at(token.ELSE) {
		if _, err := p.advanceConsuming(); err != nil {
			return nil, err
		}
		elseBody, err := p.parseStmts()
		if err != nil {
			return nil, err
		}
		node.ElseStmts = elseBody
	}
	if _, err := p.eat(token.END, "'end'"); err != nil {
		return nil, err
	}
	return node, nil
}

// while := "while" expr "do" stmt* "end"
func (p *Parser) parseWhileStmt() (*ast.WhileStmt, error) {
	if _, err := p.eat(token.WHILE, "'while'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.DO, "'do'"); err != nil {
		return nil, err
	}
	body, err := p.parseStmts()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.END, "'end'"); err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Expr: cond, Stmts: body}, nil
}

// for := "for" ID "=" expr "to" expr "do" stmt* "end"
func (p *Parser) parseForStmt() (*ast.ForStmt, error) {
	if _, err := p.eat(token.FOR, "'for'"); err != nil {
		return nil, err
	}
	id, err := p.eat(token.ID, "loop variable")
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.ASSIGN, "'='"); err != nil {
		return nil, err
	}
	start, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.TO, "'to'"); err != nil {
		return nil, err
	}
	end, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.DO, "'do'"); err != nil {
		return nil, err
	}
	body, err := p.parseStmts()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.END, "'end'"); err != nil {
		return nil, err
	}
	return &ast.ForStmt{VarID: id, StartExpr: start, EndExpr: end, Stmts: body}, nil
}

// return := "return" expr
func (p *Parser) parseReturnStmt() (*ast.ReturnStmt, error) {
	if _, err := p.eat(token.RETURN, "'return'"); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Expr: e}, nil
}

// expr := ["not"] term [op expr]
//
// This is deliberately a single precedence level recursing back into
// expr (not precedence climbing): every operator in the set binds
// with the same strength and right-associatively, per spec.md §4.2's
// explicit note that `a - b - c` parses as `a - (b - c)`.
func (p *Parser) parseExpr() (*ast.Expr, error) {
	node := &ast.Expr{}
	if p.at(token.NOT) {
		if _, err := p.advanceConsuming(); err != nil {
			return nil, err
		}
		node.Negated = true
	}

	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	node.First = first

	if operatorKinds[p.curr.Kind] {
		op, err := p.advanceConsuming()
		if err != nil {
			return nil, err
		}
		node.Op = &op
		rest, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		node.Rest = rest
	}
	return node, nil
}

// term := rvalue | "(" expr ")"
func (p *Parser) parseTerm() (ast.Term, error) {
	if p.at(token.LPAREN) {
		if _, err := p.advanceConsuming(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return &ast.ComplexTerm{Expr: inner}, nil
	}
	rv, err := p.parseRValue()
	if err != nil {
		return nil, err
	}
	return &ast.SimpleTerm{RValue: rv}, nil
}

// rvalue := literal | "nil" | "new" ID | "neg" expr | ID ["(" args ")" | ("." ID)*]
func (p *Parser) parseRValue() (ast.RValue, error) {
	switch {
	case valueKinds[p.curr.Kind]:
		tok, err := p.advanceConsuming()
		if err != nil {
			return nil, err
		}
		return &ast.SimpleRValue{Value: tok}, nil
	case p.at(token.NIL):
		tok, err := p.advanceConsuming()
		if err != nil {
			return nil, err
		}
		return &ast.SimpleRValue{Value: tok}, nil
	case p.at(token.NEW):
		if _, err := p.advanceConsuming(); err != nil {
			return nil, err
		}
		id, err := p.eat(token.ID, "type name")
		if err != nil {
			return nil, err
		}
		return &ast.NewRValue{TypeID: id}, nil
	case p.at(token.NEG):
		if _, err := p.advanceConsuming(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.NegatedRValue{Expr: e}, nil
	case p.at(token.ID):
		id, err := p.eat(token.ID, "identifier")
		if err != nil {
			return nil, err
		}
		if p.at(token.LPAREN) {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return &ast.CallExpr{FunctionID: id, Args: args}, nil
		}
		path := []token.Token{id}
		for p.at(token.DOT) {
			if _, err := p.advanceConsuming(); err != nil {
				return nil, err
			}
			field, err := p.eat(token.ID, "field name")
			if err != nil {
				return nil, err
			}
			path = append(path, field)
		}
		return &ast.IDRValue{Path: path}, nil
	default:
		return nil, p.errorf("expected an expression")
	}
}

// args := "(" [expr ("," expr)*] ")"
func (p *Parser) parseArgs() ([]*ast.Expr, error) {
	if _, err := p.eat(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	var args []*ast.Expr
	if !p.at(token.RPAREN) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		for p.at(token.COMMA) {
			if _, err := p.advanceConsuming(); err != nil {
				return nil, err
			}
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, e)
		}
	}
	if _, err := p.eat(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}
