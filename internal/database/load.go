package database

import (
	"errors"

	"github.com/mmcheck/mmcheck/internal/ir"
	"github.com/mmcheck/mmcheck/internal/token"
)

// Load tokenizes and parses a Metamath source into a Database.
//
// The pass is strictly forward: every statement is validated against
// exactly the declarations and scopes seen before it. The first structural
// error aborts the load.
func Load(name string, src []byte) (*Database, error) {
	toks, err := token.Scan(name, src)
	if err != nil {
		var se *token.ScanError
		if errors.As(err, &se) {
			return nil, &LoadError{Code: LoadCode(se.Code), Pos: se.Pos, Message: se.Message}
		}
		return nil, err
	}

	l := &loader{
		db:     newDatabase(name),
		scopes: newScopeStack(),
		toks:   toks,
	}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.db, nil
}

type loader struct {
	db     *Database
	scopes *scopeStack
	toks   []token.Token
	i      int
	seq    int // next assertion declaration index
}

// eofPos is the position reported for a truncated statement.
func (l *loader) eofPos() token.Pos {
	if len(l.toks) == 0 {
		return token.Pos{File: l.db.Name, Line: 1, Col: 1}
	}
	return l.toks[len(l.toks)-1].Pos
}

func (l *loader) next() (token.Token, bool) {
	if l.i >= len(l.toks) {
		return token.Token{}, false
	}
	t := l.toks[l.i]
	l.i++
	return t, true
}

// until collects tokens up to the given terminating keyword.
func (l *loader) until(end string) ([]token.Token, *LoadError) {
	var out []token.Token
	for {
		t, ok := l.next()
		if !ok {
			return nil, loadErrorf(CodeMalformedStatement, l.eofPos(),
				"unexpected end of input, expected %q", end)
		}
		if t.Text == end {
			return out, nil
		}
		if token.IsKeyword(t.Text) {
			return nil, loadErrorf(CodeMalformedStatement, t.Pos,
				"unexpected %q, expected %q", t.Text, end)
		}
		out = append(out, t)
	}
}

func (l *loader) run() error {
	for {
		t, ok := l.next()
		if !ok {
			break
		}
		var err *LoadError
		switch t.Text {
		case token.KwOpenScope:
			l.scopes.open()
		case token.KwCloseScope:
			if !l.scopes.close() {
				err = loadErrorf(CodeUnbalancedScope, t.Pos, "$} without matching ${")
			}
		case token.KwConstant:
			err = l.readConstants(t)
		case token.KwVariable:
			err = l.readVariables(t)
		case token.KwDisjoint:
			err = l.readDisjoint(t)
		default:
			err = l.readLabeled(t)
		}
		if err != nil {
			return err
		}
	}
	if d := l.scopes.depth(); d > 0 {
		return loadErrorf(CodeUnclosedScope, l.eofPos(), "%d scope(s) still open at end of input", d)
	}
	return nil
}

func (l *loader) readConstants(kw token.Token) *LoadError {
	if l.scopes.depth() > 0 {
		return loadErrorf(CodeMalformedStatement, kw.Pos, "$c is only allowed in the outermost scope")
	}
	syms, err := l.until(token.KwEnd)
	if err != nil {
		return err
	}
	if len(syms) == 0 {
		return loadErrorf(CodeMalformedStatement, kw.Pos, "empty $c statement")
	}
	for _, t := range syms {
		if !token.IsMathSymbol(t.Text) {
			return loadErrorf(CodeMalformedStatement, t.Pos, "invalid math symbol %q", t.Text)
		}
		sym := ir.Symbol(t.Text)
		if kind, ok := l.db.symbols[sym]; ok {
			return loadErrorf(CodeSymbolRedeclared, t.Pos,
				"symbol %q already declared as %s", t.Text, kind)
		}
		if _, ok := l.db.labels[t.Text]; ok {
			return loadErrorf(CodeMalformedStatement, t.Pos,
				"math symbol %q matches a declared label", t.Text)
		}
		l.db.symbols[sym] = ir.SymConstant
	}
	return nil
}

func (l *loader) readVariables(kw token.Token) *LoadError {
	syms, err := l.until(token.KwEnd)
	if err != nil {
		return err
	}
	if len(syms) == 0 {
		return loadErrorf(CodeMalformedStatement, kw.Pos, "empty $v statement")
	}
	for _, t := range syms {
		if !token.IsMathSymbol(t.Text) {
			return loadErrorf(CodeMalformedStatement, t.Pos, "invalid math symbol %q", t.Text)
		}
		sym := ir.Symbol(t.Text)
		if kind, ok := l.db.symbols[sym]; ok && kind == ir.SymConstant {
			return loadErrorf(CodeSymbolRedeclared, t.Pos,
				"symbol %q already declared as constant", t.Text)
		}
		if l.scopes.isActiveVar(sym) {
			return loadErrorf(CodeSymbolRedeclared, t.Pos, "variable %q is already active", t.Text)
		}
		if _, ok := l.db.labels[t.Text]; ok {
			return loadErrorf(CodeMalformedStatement, t.Pos,
				"math symbol %q matches a declared label", t.Text)
		}
		l.db.symbols[sym] = ir.SymVariable
		l.scopes.current().vars[sym] = true
	}
	return nil
}

func (l *loader) readDisjoint(kw token.Token) *LoadError {
	syms, err := l.until(token.KwEnd)
	if err != nil {
		return err
	}
	if len(syms) < 2 {
		return loadErrorf(CodeMalformedStatement, kw.Pos, "$d requires at least two variables")
	}
	seen := make(map[ir.Symbol]bool)
	vars := make([]ir.Symbol, 0, len(syms))
	for _, t := range syms {
		sym := ir.Symbol(t.Text)
		if !l.scopes.isActiveVar(sym) {
			return loadErrorf(CodeUndeclaredSymbol, t.Pos, "%q is not an active variable", t.Text)
		}
		if seen[sym] {
			return loadErrorf(CodeMalformedStatement, t.Pos, "variable %q repeated in $d", t.Text)
		}
		seen[sym] = true
		vars = append(vars, sym)
	}
	fr := l.scopes.current()
	for i := 0; i < len(vars); i++ {
		for j := i + 1; j < len(vars); j++ {
			fr.disjoint = append(fr.disjoint, ir.NewDisjointPair(vars[i], vars[j]))
		}
	}
	return nil
}

// readLabeled handles `label $f|$e|$a|$p ...` statements.
func (l *loader) readLabeled(labelTok token.Token) *LoadError {
	if !token.IsLabel(labelTok.Text) {
		return loadErrorf(CodeMalformedStatement, labelTok.Pos,
			"expected statement label, got %q", labelTok.Text)
	}
	if _, ok := l.db.symbols[ir.Symbol(labelTok.Text)]; ok {
		return loadErrorf(CodeMalformedStatement, labelTok.Pos,
			"label %q matches a declared math symbol", labelTok.Text)
	}
	kw, ok := l.next()
	if !ok {
		return loadErrorf(CodeMalformedStatement, l.eofPos(),
			"unexpected end of input after label %q", labelTok.Text)
	}
	switch kw.Text {
	case token.KwFloating:
		return l.readFloating(labelTok)
	case token.KwEssential:
		return l.readEssential(labelTok)
	case token.KwAxiom:
		return l.readAssertion(labelTok, ir.KindAxiom)
	case token.KwProvable:
		return l.readAssertion(labelTok, ir.KindTheorem)
	default:
		return loadErrorf(CodeMalformedStatement, kw.Pos,
			"expected $f, $e, $a or $p after label %q, got %q", labelTok.Text, kw.Text)
	}
}

func (l *loader) readFloating(labelTok token.Token) *LoadError {
	syms, err := l.until(token.KwEnd)
	if err != nil {
		return err
	}
	if len(syms) != 2 {
		return loadErrorf(CodeMalformedStatement, labelTok.Pos,
			"$f requires exactly a typecode and a variable, got %d symbols", len(syms))
	}
	tc, v := ir.Symbol(syms[0].Text), ir.Symbol(syms[1].Text)
	if kind, ok := l.db.symbols[tc]; !ok || kind != ir.SymConstant {
		return loadErrorf(CodeUndeclaredSymbol, syms[0].Pos,
			"typecode %q is not a declared constant", syms[0].Text)
	}
	if !l.scopes.isActiveVar(v) {
		return loadErrorf(CodeUndeclaredSymbol, syms[1].Pos,
			"%q is not an active variable", syms[1].Text)
	}
	if prev := l.scopes.activeFloating(v); prev != nil {
		return loadErrorf(CodeMalformedStatement, syms[1].Pos,
			"variable %q already typed by active $f %q", syms[1].Text, prev.Label)
	}
	if lerr := l.db.reserveLabel(labelTok.Text, labelTok.Pos); lerr != nil {
		return lerr
	}
	h := &ir.Hypothesis{
		Label:   labelTok.Text,
		Kind:    ir.HypFloating,
		Formula: ir.Formula{tc, v},
	}
	fr := l.scopes.current()
	fr.hyps = append(fr.hyps, h)
	fr.labels[h.Label] = h
	fr.floating[v] = h
	return nil
}

func (l *loader) readEssential(labelTok token.Token) *LoadError {
	f, lerr := l.readFormula(labelTok, token.KwEnd)
	if lerr != nil {
		return lerr
	}
	if lerr := l.db.reserveLabel(labelTok.Text, labelTok.Pos); lerr != nil {
		return lerr
	}
	h := &ir.Hypothesis{Label: labelTok.Text, Kind: ir.HypEssential, Formula: f}
	fr := l.scopes.current()
	fr.hyps = append(fr.hyps, h)
	fr.labels[h.Label] = h
	return nil
}

// readFormula reads and validates a math formula terminated by end:
// non-empty, constant typecode first, every symbol declared, every
// variable typed by an active $f.
func (l *loader) readFormula(labelTok token.Token, end string) (ir.Formula, *LoadError) {
	syms, err := l.until(end)
	if err != nil {
		return nil, err
	}
	if len(syms) == 0 {
		return nil, loadErrorf(CodeMalformedStatement, labelTok.Pos,
			"empty formula in statement %q", labelTok.Text)
	}
	f := make(ir.Formula, 0, len(syms))
	for i, t := range syms {
		sym := ir.Symbol(t.Text)
		kind, declared := l.db.symbols[sym]
		switch {
		case !declared:
			return nil, loadErrorf(CodeUndeclaredSymbol, t.Pos, "undeclared symbol %q", t.Text)
		case i == 0 && kind != ir.SymConstant:
			return nil, loadErrorf(CodeMalformedStatement, t.Pos,
				"formula must begin with a constant typecode, got variable %q", t.Text)
		case kind == ir.SymVariable && !l.scopes.isActiveVar(sym):
			return nil, loadErrorf(CodeUndeclaredSymbol, t.Pos,
				"variable %q is not active in this scope", t.Text)
		case kind == ir.SymVariable && l.scopes.activeFloating(sym) == nil:
			return nil, loadErrorf(CodeUntypedVariable, t.Pos,
				"variable %q has no active $f hypothesis", t.Text)
		}
		f = append(f, sym)
	}
	return f, nil
}

func (l *loader) readAssertion(labelTok token.Token, kind ir.AssertionKind) *LoadError {
	end := token.KwEnd
	if kind == ir.KindTheorem {
		end = token.KwProof
	}
	concl, lerr := l.readFormula(labelTok, end)
	if lerr != nil {
		return lerr
	}
	if lerr := l.db.reserveLabel(labelTok.Text, labelTok.Pos); lerr != nil {
		return lerr
	}

	mand, disj := l.mandatoryFrame(concl)
	a := &ir.Assertion{
		Label:      labelTok.Text,
		Kind:       kind,
		Conclusion: concl,
		Mandatory:  mand,
		Disjoint:   disj,
		Seq:        l.seq,
	}
	l.seq++

	st := &Statement{Assertion: a, Pos: labelTok.Pos}
	if kind == ir.KindTheorem {
		st.Frame = l.scopes.snapshot()
		proof, lerr := l.readProof(labelTok, st.Frame)
		if lerr != nil {
			return lerr
		}
		a.Proof = proof
	}

	l.db.assertions[a.Label] = a
	l.db.Statements = append(l.db.Statements, st)
	return nil
}

// mandatoryFrame computes the mandatory hypotheses and disjointness pairs
// for an assertion with the given conclusion, per the current scopes.
//
// The mandatory variables are those occurring in the conclusion or in any
// active essential hypothesis. Every active essential hypothesis is
// mandatory; an active floating hypothesis is mandatory exactly when its
// variable is. Order is declaration order, which fixes the positional
// contract with referencing proof steps.
func (l *loader) mandatoryFrame(concl ir.Formula) ([]*ir.Hypothesis, []ir.DisjointPair) {
	isVar := func(s ir.Symbol) bool { return l.db.IsVariable(s) }

	mandVars := make(map[ir.Symbol]bool)
	for _, v := range concl.Vars(isVar) {
		mandVars[v] = true
	}
	active := l.scopes.activeHyps()
	for _, h := range active {
		if h.Kind == ir.HypEssential {
			for _, v := range h.Formula.Vars(isVar) {
				mandVars[v] = true
			}
		}
	}

	var mand []*ir.Hypothesis
	for _, h := range active {
		switch h.Kind {
		case ir.HypEssential:
			mand = append(mand, h)
		case ir.HypFloating:
			if mandVars[h.Variable()] {
				mand = append(mand, h)
			}
		}
	}

	var disj []ir.DisjointPair
	seen := make(map[ir.DisjointPair]bool)
	for _, p := range l.scopes.activeDisjoint() {
		if mandVars[p.A] && mandVars[p.B] && !seen[p] {
			seen[p] = true
			disj = append(disj, p)
		}
	}
	return mand, disj
}

// readProof parses the $= ... $. section of a theorem.
//
// Labels are resolved here, against the theorem's own frame: a proof may
// reference any visible hypothesis and any assertion declared strictly
// earlier. Anything else is a structural UnknownLabel. The "?" placeholder
// is tolerated; it fails verification, not loading.
func (l *loader) readProof(labelTok token.Token, frame *Frame) (*ir.Proof, *LoadError) {
	first, ok := l.next()
	if !ok {
		return nil, loadErrorf(CodeMalformedStatement, l.eofPos(),
			"unexpected end of input in proof of %q", labelTok.Text)
	}
	if first.Text == "(" {
		return l.readCompressedProof(labelTok, frame)
	}

	// Uncompressed: a plain sequence of labels.
	var labels []string
	for t := first; ; {
		if t.Text == token.KwEnd {
			break
		}
		if t.Text != "?" {
			if lerr := l.checkProofLabel(t, frame); lerr != nil {
				return nil, lerr
			}
		}
		labels = append(labels, t.Text)
		var more bool
		t, more = l.next()
		if !more {
			return nil, loadErrorf(CodeMalformedStatement, l.eofPos(),
				"unexpected end of input in proof of %q", labelTok.Text)
		}
	}
	return &ir.Proof{Labels: labels}, nil
}

func (l *loader) readCompressedProof(labelTok token.Token, frame *Frame) (*ir.Proof, *LoadError) {
	refToks, err := l.until(")")
	if err != nil {
		return nil, err
	}
	refs := make([]string, 0, len(refToks))
	for _, t := range refToks {
		if lerr := l.checkProofLabel(t, frame); lerr != nil {
			return nil, lerr
		}
		refs = append(refs, t.Text)
	}
	blobToks, err := l.until(token.KwEnd)
	if err != nil {
		return nil, err
	}
	blob := ""
	for _, t := range blobToks {
		blob += t.Text
	}
	return &ir.Proof{Packed: true, Refs: refs, Blob: blob}, nil
}

// checkProofLabel enforces the visibility rule for proof references.
func (l *loader) checkProofLabel(t token.Token, frame *Frame) *LoadError {
	if !token.IsLabel(t.Text) {
		return loadErrorf(CodeMalformedStatement, t.Pos, "invalid proof label %q", t.Text)
	}
	if _, ok := frame.Hyps[t.Text]; ok {
		return nil
	}
	if _, ok := l.db.assertions[t.Text]; ok {
		return nil
	}
	return loadErrorf(CodeUnknownLabel, t.Pos,
		"proof references unknown or out-of-scope label %q", t.Text)
}
