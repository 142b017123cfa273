// Package typecheck implements the static semantic pass of spec.md
// §4.4: a single descent over the AST that resolves every name against
// a symtable.Table of Facts and enforces the binary-operator, path,
// call, and control-condition type rules, aborting with the first
// violation as a SEMANTIC mplerr.Error. Grounded directly on
// original_source/type_checker.h, which carries the same three-shaped
// symbol-table facts (a simple type string, a function signature
// vector, or a user-defined-type field map) that Fact below mirrors.
package typecheck

import (
	"strconv"

	"mypl/ast"
	"mypl/mplerr"
	"mypl/symtable"
	"mypl/token"
)

// Fact is whichever single shape of type information is attached to a
// name: a simple variable/field type, a function signature (param
// types followed by the return type), or a user-defined type's field
// map. Exactly one of Simple, FuncSig, or Fields is populated,
// mirroring the original's str_info/vec_info/map_info split.
type Fact struct {
	Simple  string
	FuncSig []string
	Fields  map[string]string
}

// Checker runs the static pass over a *ast.Program.
type Checker struct {
	syms     *symtable.Table[Fact]
	currType string
}

// Check type-checks prog, returning the first SEMANTIC error found, or
// nil if the program is well-typed.
func Check(prog *ast.Program) error {
	c := &Checker{syms: symtable.New[Fact]()}
	return c.checkProgram(prog)
}

func (c *Checker) errorf(tok token.Token, msg string) error {
	return mplerr.At(mplerr.Semantic, msg, tok)
}

func (c *Checker) errorfNoPos(msg string) error {
	return mplerr.New(mplerr.Semantic, msg)
}

// builtins mirrors initialize_built_in_types: each entry is a
// signature vector of param types followed by the return type.
var builtins = map[string][]string{
	"print":  {"string", "nil"},
	"stoi":   {"string", "int"},
	"stod":   {"string", "double"},
	"itos":   {"int", "string"},
	"dtos":   {"double", "string"},
	"get":    {"int", "string", "char"},
	"length": {"string", "int"},
	"read":   {"string"},
}

func (c *Checker) checkProgram(prog *ast.Program) error {
	for name, sig := range builtins {
		c.syms.AddName(name, Fact{FuncSig: sig})
	}

	for _, d := range prog.Decls {
		if err := c.checkDecl(d); err != nil {
			return err
		}
	}

	fact, ok := c.syms.GetName("main")
	if !ok || fact.FuncSig == nil {
		return c.errorfNoPos("undefined 'main' function")
	}
	if len(fact.FuncSig) != 1 || fact.FuncSig[0] != "int" {
		return c.errorfNoPos("invalid 'main' function: a valid main function has a return type 'int' and no parameters")
	}
	return nil
}

func (c *Checker) checkDecl(d ast.Decl) error {
	switch n := d.(type) {
	case *ast.FunDecl:
		return c.checkFunDecl(n)
	case *ast.TypeDecl:
		return c.checkTypeDecl(n)
	default:
		return c.errorfNoPos("unknown declaration")
	}
}

func (c *Checker) checkFunDecl(node *ast.FunDecl) error {
	sig := make([]string, 0, len(node.Params)+1)
	for _, p := range node.Params {
		sig = append(sig, p.Type.Lexeme)
	}
	sig = append(sig, node.ReturnType.Lexeme)
	c.syms.AddName(node.ID.Lexeme, Fact{FuncSig: sig})

	c.syms.PushEnv()
	for _, p := range node.Params {
		c.syms.AddName(p.ID.Lexeme, Fact{Simple: p.Type.Lexeme})
	}
	c.syms.AddName("return", Fact{Simple: node.ReturnType.Lexeme})

	for _, s := range node.Stmts {
		if err := c.checkStmt(s); err != nil {
			return err
		}
	}
	c.syms.PopEnv()
	return nil
}

func (c *Checker) checkTypeDecl(node *ast.TypeDecl) error {
	c.syms.AddName(node.ID.Lexeme, Fact{Fields: map[string]string{}})

	c.syms.PushEnv()
	fields := map[string]string{}
	for _, vd := range node.VDecls {
		if err := c.checkVarDeclStmt(vd); err != nil {
			return err
		}
		fields[vd.ID.Lexeme] = c.currType
	}
	c.syms.PopEnv()

	c.syms.AddName(node.ID.Lexeme, Fact{Fields: fields})
	return nil
}

func (c *Checker) checkStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.VarDeclStmt:
		return c.checkVarDeclStmt(n)
	case *ast.AssignStmt:
		return c.checkAssignStmt(n)
	case *ast.ReturnStmt:
		return c.checkReturnStmt(n)
	case *ast.IfStmt:
		return c.checkIfStmt(n)
	case *ast.WhileStmt:
		return c.checkWhileStmt(n)
	case *ast.ForStmt:
		return c.checkForStmt(n)
	case *ast.CallExpr:
		_, err := c.checkCallExpr(n)
		return err
	default:
		return c.errorfNoPos("unknown statement")
	}
}

func (c *Checker) checkVarDeclStmt(node *ast.VarDeclStmt) error {
	if node.Type != nil && node.Type.Kind == token.ID {
		if _, ok := c.syms.GetName(node.Type.Lexeme); !ok {
			return c.errorf(*node.Type, "UDT "+node.Type.Lexeme+" does not exist")
		}
	}

	if err := c.checkExpr(node.Expr); err != nil {
		return err
	}

	if node.Type != nil && c.currType == "nil" {
		c.currType = node.Type.Lexeme
	}
	if node.Type != nil && node.Type.Lexeme != c.currType && c.currType != "nil" {
		return c.errorf(*node.Type, "expression (rhs) does not match explicitly defined type")
	}
	if node.Type == nil && c.currType == "nil" {
		return c.errorf(node.ID, "cannot implicitly define a variable to be a nil value")
	}

	if c.syms.InCurrentEnv(node.ID.Lexeme) {
		return c.errorf(node.ID, "redefinition of variable: "+node.ID.Lexeme)
	}
	c.syms.AddName(node.ID.Lexeme, Fact{Simple: c.currType})
	return nil
}

// resolvePath resolves a dotted name/field path to its type,
// following UDT field maps exactly as the original's prev_path_type
// loop does for both AssignStmt lvalues and IDRValue reads.
func (c *Checker) resolvePath(path []token.Token) (string, error) {
	first := path[0]
	fact, ok := c.syms.GetName(first.Lexeme)
	if !ok {
		return "", c.errorf(first, "var/type "+first.Lexeme+" not found")
	}
	curr := fact.Simple

	for _, t := range path[1:] {
		owner, ok := c.syms.GetName(curr)
		if !ok || owner.Fields == nil {
			return "", c.errorf(t, "id value does not exist")
		}
		fieldType, ok := owner.Fields[t.Lexeme]
		if !ok {
			return "", c.errorf(t, "no field "+t.Lexeme)
		}
		curr = fieldType
	}
	return curr, nil
}

func (c *Checker) checkAssignStmt(node *ast.AssignStmt) error {
	lhsType, err := c.resolvePath(node.LValuePath)
	if err != nil {
		return err
	}
	if err := c.checkExpr(node.Expr); err != nil {
		return err
	}
	if lhsType != c.currType && c.currType != "nil" {
		return c.errorf(node.LValuePath[0], "lhs type "+lhsType+" does not match rhs type "+c.currType)
	}
	return nil
}

func (c *Checker) checkReturnStmt(node *ast.ReturnStmt) error {
	if err := c.checkExpr(node.Expr); err != nil {
		return err
	}
	fact, _ := c.syms.GetName("return")
	if c.currType != fact.Simple && c.currType != "nil" {
		return c.errorfNoPos("function type [" + fact.Simple + "] does not match returned type [" + c.currType + "]")
	}
	return nil
}

func (c *Checker) checkCondBlock(cb ast.CondBlock, wantBool bool, name string) error {
	if err := c.checkExpr(cb.Expr); err != nil {
		return err
	}
	if wantBool && c.currType != "bool" {
		return c.errorfNoPos(name + " statement conditions need to be boolean type")
	}
	c.syms.PushEnv()
	for _, s := range cb.Stmts {
		if err := c.checkStmt(s); err != nil {
			return err
		}
	}
	c.syms.PopEnv()
	return nil
}

func (c *Checker) checkIfStmt(node *ast.IfStmt) error {
	if err := c.checkCondBlock(node.IfPart, true, "if"); err != nil {
		return err
	}
	for _, ei := range node.ElseIfs {
		if err := c.checkCondBlock(ei, true, "if"); err != nil {
			return err
		}
	}
	if len(node.ElseStmts) > 0 {
		c.syms.PushEnv()
		for _, s := range node.ElseStmts {
			if err := c.checkStmt(s); err != nil {
				return err
			}
		}
		c.syms.PopEnv()
	}
	return nil
}

func (c *Checker) checkWhileStmt(node *ast.WhileStmt) error {
	return c.checkCondBlock(ast.CondBlock{Expr: node.Expr, Stmts: node.Stmts}, true, "while")
}

func (c *Checker) checkForStmt(node *ast.ForStmt) error {
	c.syms.PushEnv()

	if err := c.checkExpr(node.StartExpr); err != nil {
		return err
	}
	c.syms.AddName(node.VarID.Lexeme, Fact{Simple: c.currType})
	if c.currType != "int" {
		return c.errorf(node.VarID, "for statement conditions need to be int type")
	}

	if err := c.checkExpr(node.EndExpr); err != nil {
		return err
	}
	if c.currType != "int" {
		return c.errorf(node.VarID, "for statement conditions need to be int type")
	}

	c.syms.PushEnv()
	for _, s := range node.Stmts {
		if err := c.checkStmt(s); err != nil {
			return err
		}
	}
	c.syms.PopEnv()
	c.syms.PopEnv()
	return nil
}

// checkExpr implements the operator type table verbatim from
// original_source/type_checker.h's Expr visitor: the same five operator
// classes (arithmetic, comparison, modulo, logical, equality), same
// string-keyed dispatch on the operator lexeme.
func (c *Checker) checkExpr(node *ast.Expr) error {
	if err := c.checkTerm(node.First); err != nil {
		return err
	}
	lhsType := c.currType

	if node.Rest != nil {
		if err := c.checkExpr(node.Rest); err != nil {
			return err
		}
	}

	if node.Op != nil {
		op := node.Op.Lexeme
		switch {
		case op == "+" || op == "-" || op == "*" || op == "/":
			switch {
			case op == "+" && (lhsType == "char" || lhsType == "string"):
				if c.currType == "char" || c.currType == "string" {
					c.currType = "string"
				} else {
					return c.errorfNoPos("concatenation has to be between strings and chars")
				}
			case lhsType == "int" && c.currType == "int":
				c.currType = "int"
			case lhsType == "double" && c.currType == "double":
				c.currType = "double"
			default:
				return c.errorfNoPos("expressions with +,-,*,/ need to be (int op int) or (double op double)")
			}
		case op == "<" || op == ">" || op == "<=" || op == ">=":
			if (lhsType == "int" && c.currType == "int") ||
				(lhsType == "double" && c.currType == "double") ||
				(lhsType == "char" && c.currType == "char") ||
				(lhsType == "string" && c.currType == "string") ||
				(lhsType == "bool" && c.currType == "bool") {
				c.currType = "bool"
			} else {
				return c.errorf(*node.Op, "cannot use comparison operators without matching double/int/char/string values")
			}
		case op == "%":
			if lhsType == "int" && c.currType == "int" {
				c.currType = "int"
			} else {
				return c.errorfNoPos("use of mod % needs to be int on lhs and rhs")
			}
		case op == "or" || op == "and":
			if lhsType != "bool" || c.currType != "bool" {
				return c.errorfNoPos("'or' and 'and' operators can only be used with boolean expressions")
			}
		case op == "==" || op == "!=":
			if lhsType != c.currType && lhsType != "nil" && c.currType != "nil" {
				return c.errorfNoPos("'==' and '!=' comparisons need to be between two matching types or nils")
			}
			c.currType = "bool"
		}
	}

	if node.Negated && c.currType != "bool" {
		return c.errorfNoPos("cannot negate (not) non-bool expressions")
	}
	return nil
}

func (c *Checker) checkTerm(t ast.Term) error {
	switch n := t.(type) {
	case *ast.SimpleTerm:
		return c.checkRValue(n.RValue)
	case *ast.ComplexTerm:
		return c.checkExpr(n.Expr)
	default:
		return c.errorfNoPos("unknown term")
	}
}

func (c *Checker) checkRValue(r ast.RValue) error {
	switch n := r.(type) {
	case *ast.SimpleRValue:
		c.currType = n.Value.TypeName()
		return nil
	case *ast.NewRValue:
		c.currType = n.TypeID.Lexeme
		fact, ok := c.syms.GetName(c.currType)
		if !ok || fact.Fields == nil {
			return c.errorf(n.TypeID, "user defined type doesn't exist")
		}
		return nil
	case *ast.CallExpr:
		_, err := c.checkCallExpr(n)
		return err
	case *ast.IDRValue:
		typ, err := c.resolvePath(n.Path)
		if err != nil {
			return err
		}
		c.currType = typ
		return nil
	case *ast.NegatedRValue:
		if err := c.checkExpr(n.Expr); err != nil {
			return err
		}
		if c.currType != "int" && c.currType != "double" {
			return c.errorfNoPos("cannot negate non int/double values")
		}
		return nil
	default:
		return c.errorfNoPos("unknown rvalue")
	}
}

func (c *Checker) checkCallExpr(node *ast.CallExpr) (string, error) {
	fact, ok := c.syms.GetName(node.FunctionID.Lexeme)
	if !ok || fact.FuncSig == nil {
		return "", c.errorf(node.FunctionID, "function "+node.FunctionID.Lexeme+" does not exist")
	}
	sig := fact.FuncSig
	if len(sig)-1 != len(node.Args) {
		return "", c.errorf(node.FunctionID, "incorrect number of function params, expected "+strconv.Itoa(len(sig)-1))
	}
	for i, arg := range node.Args {
		if err := c.checkExpr(arg); err != nil {
			return "", err
		}
		if sig[i] != c.currType && c.currType != "nil" {
			return "", c.errorf(node.FunctionID, "mismatched function call argument")
		}
	}
	c.currType = sig[len(sig)-1]
	return c.currType, nil
}
