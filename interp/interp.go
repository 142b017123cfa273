// Package interp implements the tree-walking evaluator of spec.md
// §4.6, grounded on original_source/interpreter.h with two deliberate
// re-architectures called out in SPEC_FULL.md §9: expressions return a
// value.Data directly instead of writing through a shared curr_val
// register, and a function's "return" unwinds via a narrow control
// signal instead of throwing and catching an exception. The
// interactive stepping debugger built into the original is out of
// scope (spec.md §1) and is not carried over.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mypl/ast"
	"mypl/heap"
	"mypl/mplerr"
	"mypl/symtable"
	"mypl/token"
	"mypl/value"
)

// Interp evaluates a type-checked *ast.Program.
type Interp struct {
	syms      *symtable.Table[value.Data]
	heap      *heap.Heap
	funcs     map[string]*ast.FunDecl
	types     map[string]*ast.TypeDecl
	globalEnv symtable.EnvID
	out       io.Writer
	in        *bufio.Reader
}

// New returns an Interp that writes print() output to out and reads
// read() input from in.
func New(out io.Writer, in io.Reader) *Interp {
	return &Interp{
		syms:  symtable.New[value.Data](),
		heap:  heap.New(),
		funcs: map[string]*ast.FunDecl{},
		types: map[string]*ast.TypeDecl{},
		out:   out,
		in:    bufio.NewReader(in),
	}
}

func (in *Interp) errorf(msg string) error {
	return mplerr.New(mplerr.Runtime, msg)
}

func (in *Interp) errorfAt(tok token.Token, msg string) error {
	return mplerr.At(mplerr.Runtime, msg, tok)
}

// stmtResult is the narrow control-flow signal a statement produces:
// either "keep going" (an empty stmtResult) or "a return was hit,
// unwind with this value" (returned=true). It replaces the original's
// thrown-and-caught MyPLReturnException.
type stmtResult struct {
	returned bool
	value    value.Data
}

// Run type-checks nothing itself (the caller runs typecheck.Check
// first); it registers every declaration, then calls main() and
// returns its int result as the process exit code.
func (in *Interp) Run(prog *ast.Program) (int, error) {
	in.globalEnv = in.syms.GetEnv()

	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *ast.FunDecl:
			in.funcs[n.ID.Lexeme] = n
		case *ast.TypeDecl:
			in.types[n.ID.Lexeme] = n
		}
	}

	result, err := in.callFunction(in.funcs["main"].ID, nil)
	if err != nil {
		return 0, err
	}
	return int(result.AsInt()), nil
}

func (in *Interp) execStmts(stmts []ast.Stmt) (stmtResult, error) {
	for _, s := range stmts {
		res, err := in.execStmt(s)
		if err != nil {
			return stmtResult{}, err
		}
		if res.returned {
			return res, nil
		}
	}
	return stmtResult{}, nil
}

func (in *Interp) execStmt(s ast.Stmt) (stmtResult, error) {
	switch n := s.(type) {
	case *ast.VarDeclStmt:
		return stmtResult{}, in.execVarDeclStmt(n)
	case *ast.AssignStmt:
		return stmtResult{}, in.execAssignStmt(n)
	case *ast.ReturnStmt:
		v, err := in.evalExpr(n.Expr)
		if err != nil {
			return stmtResult{}, err
		}
		return stmtResult{returned: true, value: v}, nil
	case *ast.IfStmt:
		return in.execIfStmt(n)
	case *ast.WhileStmt:
		return in.execWhileStmt(n)
	case *ast.ForStmt:
		return in.execForStmt(n)
	case *ast.CallExpr:
		_, err := in.evalCallExpr(n)
		return stmtResult{}, err
	default:
		return stmtResult{}, in.errorf("unknown statement")
	}
}

func (in *Interp) execVarDeclStmt(node *ast.VarDeclStmt) error {
	v, err := in.evalExpr(node.Expr)
	if err != nil {
		return err
	}
	in.syms.AddName(node.ID.Lexeme, v)
	return nil
}

func (in *Interp) execAssignStmt(node *ast.AssignStmt) error {
	v, err := in.evalExpr(node.Expr)
	if err != nil {
		return err
	}
	path := node.LValuePath
	if len(path) == 1 {
		in.syms.SetName(path[0].Lexeme, v)
		return nil
	}

	root, ok := in.syms.GetName(path[0].Lexeme)
	if !ok {
		return in.errorfAt(path[0], "undefined variable "+path[0].Lexeme)
	}
	obj, ok := in.heap.Get(root.AsOid())
	if !ok {
		return in.errorfAt(path[0], "dangling reference")
	}
	for _, field := range path[1 : len(path)-1] {
		next, ok := obj.Get(field.Lexeme)
		if !ok {
			return in.errorfAt(field, "no field "+field.Lexeme)
		}
		obj, ok = in.heap.Get(next.AsOid())
		if !ok {
			return in.errorfAt(field, "dangling reference")
		}
	}
	obj.Set(path[len(path)-1].Lexeme, v)
	return nil
}

func (in *Interp) execIfStmt(node *ast.IfStmt) (stmtResult, error) {
	cond, err := in.evalExpr(node.IfPart.Expr)
	if err != nil {
		return stmtResult{}, err
	}
	if cond.AsBool() {
		return in.execBlock(node.IfPart.Stmts)
	}
	for _, ei := range node.ElseIfs {
		c, err := in.evalExpr(ei.Expr)
		if err != nil {
			return stmtResult{}, err
		}
		if c.AsBool() {
			return in.execBlock(ei.Stmts)
		}
	}
	if len(node.ElseStmts) > 0 {
		return in.execBlock(node.ElseStmts)
	}
	return stmtResult{}, nil
}

func (in *Interp) execBlock(stmts []ast.Stmt) (stmtResult, error) {
	in.syms.PushEnv()
	res, err := in.execStmts(stmts)
	in.syms.PopEnv()
	return res, err
}

func (in *Interp) execWhileStmt(node *ast.WhileStmt) (stmtResult, error) {
	for {
		cond, err := in.evalExpr(node.Expr)
		if err != nil {
			return stmtResult{}, err
		}
		if !cond.AsBool() {
			return stmtResult{}, nil
		}
		res, err := in.execBlock(node.Stmts)
		if err != nil {
			return stmtResult{}, err
		}
		if res.returned {
			return res, nil
		}
	}
}

func (in *Interp) execForStmt(node *ast.ForStmt) (stmtResult, error) {
	in.syms.PushEnv()
	defer in.syms.PopEnv()

	start, err := in.evalExpr(node.StartExpr)
	if err != nil {
		return stmtResult{}, err
	}
	end, err := in.evalExpr(node.EndExpr)
	if err != nil {
		return stmtResult{}, err
	}
	in.syms.AddName(node.VarID.Lexeme, start)

	for i := start.AsInt(); i <= end.AsInt(); i++ {
		in.syms.SetName(node.VarID.Lexeme, value.NewInt(i))
		res, err := in.execBlock(node.Stmts)
		if err != nil {
			return stmtResult{}, err
		}
		if res.returned {
			return res, nil
		}
	}
	return stmtResult{}, nil
}

// evalExpr implements `[not] first [op rest]`, mirroring the original
// operator dispatch table but returning a value.Data directly rather
// than writing through curr_val.
func (in *Interp) evalExpr(node *ast.Expr) (value.Data, error) {
	first, err := in.evalTerm(node.First)
	if err != nil {
		return value.Data{}, err
	}

	result := first
	if node.Op != nil {
		rest, err := in.evalExpr(node.Rest)
		if err != nil {
			return value.Data{}, err
		}
		result, err = in.applyOp(*node.Op, first, rest)
		if err != nil {
			return value.Data{}, err
		}
	}

	if node.Negated {
		return value.NewBool(!result.AsBool()), nil
	}
	return result, nil
}

func (in *Interp) applyOp(op token.Token, l, r value.Data) (value.Data, error) {
	switch op.Kind {
	case token.PLUS:
		return in.applyPlus(op, l, r)
	case token.MINUS, token.MULTIPLY, token.DIVIDE:
		return in.applyArith(op, l, r)
	case token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL:
		return in.applyCompare(op, l, r)
	case token.MODULO:
		if l.Tag() != value.Int || r.Tag() != value.Int {
			return value.Data{}, in.errorfAt(op, "mod operator requires int operands")
		}
		if r.AsInt() == 0 {
			return value.Data{}, in.errorfAt(op, "modulo by zero")
		}
		return value.NewInt(l.AsInt() % r.AsInt()), nil
	case token.EQUAL, token.NOT_EQUAL:
		return in.applyEquality(op, l, r)
	case token.AND:
		return value.NewBool(l.AsBool() && r.AsBool()), nil
	case token.OR:
		return value.NewBool(l.AsBool() || r.AsBool()), nil
	default:
		return value.Data{}, in.errorfAt(op, "unknown operator")
	}
}

func (in *Interp) applyPlus(op token.Token, l, r value.Data) (value.Data, error) {
	switch {
	case l.Tag() == value.Int && r.Tag() == value.Int:
		return value.NewInt(l.AsInt() + r.AsInt()), nil
	case l.Tag() == value.Double && r.Tag() == value.Double:
		return value.NewDouble(l.AsDouble() + r.AsDouble()), nil
	case l.Tag() == value.Char && r.Tag() == value.Char:
		return value.NewString(string(l.AsChar()) + string(r.AsChar())), nil
	case l.Tag() == value.Char && r.Tag() == value.String:
		return value.NewString(string(l.AsChar()) + r.AsString()), nil
	case l.Tag() == value.String && r.Tag() == value.Char:
		return value.NewString(l.AsString() + string(r.AsChar())), nil
	case l.Tag() == value.String && r.Tag() == value.String:
		return value.NewString(l.AsString() + r.AsString()), nil
	default:
		return value.Data{}, in.errorfAt(op, "unable to add expressions provided")
	}
}

func (in *Interp) applyArith(op token.Token, l, r value.Data) (value.Data, error) {
	switch {
	case l.Tag() == value.Int && r.Tag() == value.Int:
		switch op.Kind {
		case token.MINUS:
			return value.NewInt(l.AsInt() - r.AsInt()), nil
		case token.MULTIPLY:
			return value.NewInt(l.AsInt() * r.AsInt()), nil
		default:
			if r.AsInt() == 0 {
				return value.Data{}, in.errorfAt(op, "division by zero")
			}
			return value.NewInt(l.AsInt() / r.AsInt()), nil
		}
	case l.Tag() == value.Double && r.Tag() == value.Double:
		switch op.Kind {
		case token.MINUS:
			return value.NewDouble(l.AsDouble() - r.AsDouble()), nil
		case token.MULTIPLY:
			return value.NewDouble(l.AsDouble() * r.AsDouble()), nil
		default:
			return value.NewDouble(l.AsDouble() / r.AsDouble()), nil
		}
	default:
		return value.Data{}, in.errorfAt(op, "simple arithmetic error")
	}
}

func (in *Interp) applyCompare(op token.Token, l, r value.Data) (value.Data, error) {
	var less, equal bool
	switch {
	case l.Tag() == value.Int && r.Tag() == value.Int:
		less, equal = l.AsInt() < r.AsInt(), l.AsInt() == r.AsInt()
	case l.Tag() == value.Double && r.Tag() == value.Double:
		less, equal = l.AsDouble() < r.AsDouble(), l.AsDouble() == r.AsDouble()
	case l.Tag() == value.Char && r.Tag() == value.Char:
		less, equal = l.AsChar() < r.AsChar(), l.AsChar() == r.AsChar()
	case l.Tag() == value.String && r.Tag() == value.String:
		less, equal = l.AsString() < r.AsString(), l.AsString() == r.AsString()
	case l.Tag() == value.Bool && r.Tag() == value.Bool:
		less, equal = !l.AsBool() && r.AsBool(), l.AsBool() == r.AsBool()
	default:
		return value.Data{}, in.errorfAt(op, "unable to compute comparison operation")
	}
	switch op.Kind {
	case token.LESS:
		return value.NewBool(less), nil
	case token.LESS_EQUAL:
		return value.NewBool(less || equal), nil
	case token.GREATER:
		return value.NewBool(!less && !equal), nil
	default:
		return value.NewBool(!less), nil
	}
}

func (in *Interp) applyEquality(op token.Token, l, r value.Data) (value.Data, error) {
	var eq bool
	switch {
	case l.Tag() == value.Nil || r.Tag() == value.Nil:
		eq = l.Tag() == r.Tag()
	case l.Tag() == value.Int && r.Tag() == value.Int:
		eq = l.AsInt() == r.AsInt()
	case l.Tag() == value.Double && r.Tag() == value.Double:
		eq = l.AsDouble() == r.AsDouble()
	case l.Tag() == value.Bool && r.Tag() == value.Bool:
		eq = l.AsBool() == r.AsBool()
	case l.Tag() == value.Char && r.Tag() == value.Char:
		eq = l.AsChar() == r.AsChar()
	case l.Tag() == value.String && r.Tag() == value.String:
		eq = l.AsString() == r.AsString()
	case l.Tag() == value.Oid && r.Tag() == value.Oid:
		eq = l.AsOid() == r.AsOid()
	default:
		return value.Data{}, in.errorfAt(op, "equivalence operator requires matching types")
	}
	if op.Kind == token.NOT_EQUAL {
		eq = !eq
	}
	return value.NewBool(eq), nil
}

func (in *Interp) evalTerm(t ast.Term) (value.Data, error) {
	switch n := t.(type) {
	case *ast.SimpleTerm:
		return in.evalRValue(n.RValue)
	case *ast.ComplexTerm:
		return in.evalExpr(n.Expr)
	default:
		return value.Data{}, in.errorf("unknown term")
	}
}

func (in *Interp) evalRValue(r ast.RValue) (value.Data, error) {
	switch n := r.(type) {
	case *ast.SimpleRValue:
		return in.evalSimpleRValue(n)
	case *ast.NewRValue:
		return in.evalNewRValue(n)
	case *ast.CallExpr:
		return in.evalCallExpr(n)
	case *ast.IDRValue:
		return in.evalIDRValue(n)
	case *ast.NegatedRValue:
		return in.evalNegatedRValue(n)
	default:
		return value.Data{}, in.errorf("unknown rvalue")
	}
}

func (in *Interp) evalSimpleRValue(n *ast.SimpleRValue) (value.Data, error) {
	tok := n.Value
	switch tok.Kind {
	case token.CHAR_VAL:
		return value.NewChar(rune(tok.Lexeme[0])), nil
	case token.STRING_VAL:
		return value.NewString(tok.Lexeme), nil
	case token.INT_VAL:
		i, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return value.Data{}, in.errorfAt(tok, "int out of range")
		}
		return value.NewInt(i), nil
	case token.DOUBLE_VAL:
		d, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return value.Data{}, in.errorfAt(tok, "double out of range")
		}
		return value.NewDouble(d), nil
	case token.BOOL_VAL:
		return value.NewBool(tok.Lexeme == "true"), nil
	case token.NIL:
		return value.NewNil(), nil
	default:
		return value.Data{}, in.errorfAt(tok, "invalid simple value")
	}
}

func (in *Interp) evalNewRValue(n *ast.NewRValue) (value.Data, error) {
	typeDecl, ok := in.types[n.TypeID.Lexeme]
	if !ok {
		return value.Data{}, in.errorfAt(n.TypeID, "user defined type doesn't exist")
	}

	obj := heap.NewObject()
	in.syms.PushEnv()
	for _, vd := range typeDecl.VDecls {
		v, err := in.evalExpr(vd.Expr)
		if err != nil {
			in.syms.PopEnv()
			return value.Data{}, err
		}
		in.syms.AddName(vd.ID.Lexeme, v)
		obj.Set(vd.ID.Lexeme, v)
	}
	in.syms.PopEnv()

	oid := in.heap.Alloc(obj)
	return value.NewOid(oid), nil
}

func (in *Interp) evalIDRValue(n *ast.IDRValue) (value.Data, error) {
	if len(n.Path) == 1 {
		v, ok := in.syms.GetName(n.Path[0].Lexeme)
		if !ok {
			return value.Data{}, in.errorfAt(n.Path[0], "undefined variable "+n.Path[0].Lexeme)
		}
		return v, nil
	}

	root, ok := in.syms.GetName(n.Path[0].Lexeme)
	if !ok {
		return value.Data{}, in.errorfAt(n.Path[0], "undefined variable "+n.Path[0].Lexeme)
	}
	curr := root
	for _, field := range n.Path[1:] {
		obj, ok := in.heap.Get(curr.AsOid())
		if !ok {
			return value.Data{}, in.errorfAt(field, "dangling reference")
		}
		v, ok := obj.Get(field.Lexeme)
		if !ok {
			return value.Data{}, in.errorfAt(field, "no field "+field.Lexeme)
		}
		curr = v
	}
	return curr, nil
}

func (in *Interp) evalNegatedRValue(n *ast.NegatedRValue) (value.Data, error) {
	v, err := in.evalExpr(n.Expr)
	if err != nil {
		return value.Data{}, err
	}
	switch v.Tag() {
	case value.Int:
		return value.NewInt(-v.AsInt()), nil
	case value.Double:
		return value.NewDouble(-v.AsDouble()), nil
	default:
		return value.Data{}, in.errorf("cannot negate non double/int expressions")
	}
}

var builtinNames = map[string]bool{
	"print": true, "itos": true, "length": true, "stoi": true,
	"dtos": true, "get": true, "read": true, "stod": true,
}

func (in *Interp) evalCallExpr(node *ast.CallExpr) (value.Data, error) {
	name := node.FunctionID.Lexeme
	if builtinNames[name] {
		return in.evalBuiltin(node)
	}
	return in.callUserFunction(node)
}

// evalBuiltin implements the eight built-ins verbatim from
// original_source/interpreter.h's CallExpr visitor, minus its
// debugger tracing.
func (in *Interp) evalBuiltin(node *ast.CallExpr) (value.Data, error) {
	arg := func(i int) (value.Data, error) { return in.evalExpr(node.Args[i]) }

	switch node.FunctionID.Lexeme {
	case "print":
		v, err := arg(0)
		if err != nil {
			return value.Data{}, err
		}
		s := v.String()
		s = strings.ReplaceAll(s, `\n`, "\n")
		s = strings.ReplaceAll(s, `\t`, "\t")
		fmt.Fprint(in.out, s)
		return value.NewNil(), nil

	case "itos":
		v, err := arg(0)
		if err != nil {
			return value.Data{}, err
		}
		return value.NewString(strconv.FormatInt(v.AsInt(), 10)), nil

	case "dtos":
		v, err := arg(0)
		if err != nil {
			return value.Data{}, err
		}
		return value.NewString(strconv.FormatFloat(v.AsDouble(), 'f', -1, 64)), nil

	case "length":
		v, err := arg(0)
		if err != nil {
			return value.Data{}, err
		}
		return value.NewInt(int64(len([]rune(v.AsString())))), nil

	case "stoi":
		v, err := arg(0)
		if err != nil {
			return value.Data{}, err
		}
		i, perr := strconv.ParseInt(v.AsString(), 10, 64)
		if perr != nil {
			return value.Data{}, mplerr.Wrap(mplerr.Runtime, node.FunctionID, perr, "stoi: invalid input")
		}
		return value.NewInt(i), nil

	case "stod":
		v, err := arg(0)
		if err != nil {
			return value.Data{}, err
		}
		d, perr := strconv.ParseFloat(v.AsString(), 64)
		if perr != nil {
			return value.Data{}, mplerr.Wrap(mplerr.Runtime, node.FunctionID, perr, "stod: invalid input")
		}
		return value.NewDouble(d), nil

	case "get":
		idxVal, err := arg(0)
		if err != nil {
			return value.Data{}, err
		}
		strVal, err := arg(1)
		if err != nil {
			return value.Data{}, err
		}
		runes := []rune(strVal.AsString())
		idx := idxVal.AsInt()
		if len(runes) == 0 {
			return value.Data{}, in.errorfAt(node.FunctionID, "get() function requires string size greater than 0")
		}
		if idx < 0 || idx >= int64(len(runes)) {
			return value.Data{}, in.errorfAt(node.FunctionID, "invalid index provided for get() function")
		}
		return value.NewChar(runes[idx]), nil

	case "read":
		return value.NewString(in.readToken()), nil

	default:
		return value.Data{}, in.errorfAt(node.FunctionID, "unknown built-in "+node.FunctionID.Lexeme)
	}
}

// readToken reads the next whitespace-delimited token from stdin, per
// spec.md §6's `read` built-in — the Go analogue of the original's
// `std::cin >> in`, which skips leading whitespace and stops at the
// first trailing whitespace rune or EOF.
func (in *Interp) readToken() string {
	var b strings.Builder
	for {
		r, _, err := in.in.ReadRune()
		if err != nil {
			break
		}
		if isSpace(r) {
			if b.Len() > 0 {
				break
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func (in *Interp) callUserFunction(node *ast.CallExpr) (value.Data, error) {
	args := make([]value.Data, len(node.Args))
	for i, a := range node.Args {
		v, err := in.evalExpr(a)
		if err != nil {
			return value.Data{}, err
		}
		args[i] = v
	}
	return in.callFunction(node.FunctionID, args)
}

// callFunction implements the original's environment save/switch-to-
// global/push/bind-params/execute/pop/restore call convention, which
// is what gives MyPL functions static (not lexical) scoping: a called
// function's frame chains up to the global frame only, never to
// whichever frame happened to call it.
func (in *Interp) callFunction(id token.Token, args []value.Data) (value.Data, error) {
	fn, ok := in.funcs[id.Lexeme]
	if !ok {
		return value.Data{}, in.errorfAt(id, "function "+id.Lexeme+" does not exist")
	}

	previousEnv := in.syms.GetEnv()
	in.syms.SetEnv(in.globalEnv)
	in.syms.PushEnv()

	for i, param := range fn.Params {
		in.syms.AddName(param.ID.Lexeme, args[i])
	}

	res, err := in.execStmts(fn.Stmts)

	in.syms.PopEnv()
	in.syms.SetEnv(previousEnv)

	if err != nil {
		return value.Data{}, err
	}
	if res.returned {
		return res.value, nil
	}
	return value.NewNil(), nil
}
