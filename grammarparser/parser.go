// Package grammarparser reads Floyd grammar source text into the ast.Node
// tree shape shared with the analyzer and interpreter.
package grammarparser

import (
	"strconv"

	"github.com/ava12/floyd/ast"
	"github.com/ava12/floyd/source"
)

// ParseString parses grammar source text into a KindRules root node.
func ParseString (name, content string) (*ast.Node, error) {
	return Parse(source.New(name, []byte(content)))
}

// Parse parses grammar source text into a KindRules root node.
func Parse (src *source.Source) (*ast.Node, error) {
	p := &parser{s: newScanner(src), seen: map[string]bool{}}
	return p.parseGrammar()
}

type parser struct {
	s    *scanner
	seen map[string]bool
}

func (p *parser) fail (err error) (*ast.Node, error) { return nil, err }

func (p *parser) parseGrammar () (*ast.Node, error) {
	root := ast.New(ast.KindRules, nil)
	p.s.skipFiller()
	for !p.s.eof() {
		var (
			n   *ast.Node
			err error
		)
		if p.s.pk() == '%' {
			n, err = p.parsePragma()
		} else {
			n, err = p.parseRule()
		}
		if err != nil {
			return nil, err
		}
		root.Ch = append(root.Ch, n)
		p.s.skipFiller()
	}
	return root, nil
}

func (p *parser) parseRule () (*ast.Node, error) {
	startPos := p.s.here()
	if !isIdentStart(p.s.pk()) {
		return p.fail(expectedTokenError(startPos, "a rule name", string(p.s.pk())))
	}
	name := p.s.readIdent()
	if p.seen[name] {
		return p.fail(duplicateRuleError(startPos, name))
	}
	p.seen[name] = true

	p.s.skipFiller()
	if p.s.eof() || p.s.pk() != '=' {
		return p.fail(expectedTokenError(p.s.here(), "'='", string(p.s.pk())))
	}
	p.s.pos++
	p.s.skipFiller()

	body, err := p.parseChoice()
	if err != nil {
		return nil, err
	}
	if body.Kind == ast.KindEmpty {
		return p.fail(emptyRuleBodyError(startPos, name))
	}
	rule := ast.New(ast.KindRule, name, body)
	return rule.WithSpan(startPos.Offset(), p.s.pos), nil
}

// parseChoice parses one or more '|'-separated sequences, terminated by
// the start of the next rule/pragma header or end of input.
func (p *parser) parseChoice () (*ast.Node, error) {
	first, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	alts := []*ast.Node{first}
	for {
		p.s.skipFiller()
		if p.s.eof() || p.s.pk() != '|' {
			break
		}
		p.s.pos++
		p.s.skipFiller()
		next, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return ast.New(ast.KindChoice, nil, alts...), nil
}

// parseSequence parses elements until '|', an action, a rule/pragma
// header, or end of input.
func (p *parser) parseSequence () (*ast.Node, error) {
	startPos := p.s.here()
	var elems []*ast.Node
	for {
		p.s.skipFiller()
		if p.s.eof() || p.s.pk() == '|' {
			break
		}
		if p.atSequenceEnd() {
			break
		}
		if p.atAction() {
			break
		}
		el, err := p.parseLabeled()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}

	var body *ast.Node
	switch len(elems) {
	case 0:
		body = ast.New(ast.KindEmpty, nil).WithSpan(startPos.Offset(), p.s.pos)
	case 1:
		body = elems[0]
	default:
		body = ast.New(ast.KindSeq, nil, elems...)
	}

	p.s.skipFiller()
	if p.atAction() {
		action, err := p.parseAction(body)
		if err != nil {
			return nil, err
		}
		return action, nil
	}
	return body, nil
}

// atSequenceEnd reports whether the scanner (after filler) is at a
// token that can never start an Element: end of input, ')' '>' '}' ']'
// closing an enclosing group, or the next rule/pragma header.
func (p *parser) atSequenceEnd () bool {
	if p.s.eof() {
		return true
	}
	switch p.s.pk() {
	case ')', '>', '}', ']':
		return true
	case '%':
		return true
	}
	return p.s.atRuleHeader()
}

func (p *parser) atAction () bool {
	if p.s.eof() {
		return false
	}
	if p.s.pk() == '-' && p.s.pkAt(1) == '>' {
		return true
	}
	if p.s.pk() == '{' {
		return true
	}
	return false
}

func (p *parser) parseAction (body *ast.Node) (*ast.Node, error) {
	var expr *ast.Node
	var err error
	if p.s.pk() == '-' {
		p.s.pos += 2 // "->"
		p.s.skipFiller()
		expr, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	} else {
		p.s.pos++ // "{"
		p.s.skipFiller()
		expr, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.s.skipFiller()
		if p.s.eof() || p.s.pk() != '}' {
			return nil, expectedTokenError(p.s.here(), "'}'", string(p.s.pk()))
		}
		p.s.pos++
	}
	return ast.New(ast.KindAction, nil, body, expr), nil
}

func (p *parser) parseLabeled () (*ast.Node, error) {
	el, err := p.parsePrefixed()
	if err != nil {
		return nil, err
	}
	p.s.skipFiller()
	if !p.s.eof() && p.s.pk() == ':' && isIdentStart(p.s.pkAt(1)) {
		p.s.pos++
		name := p.s.readIdent()
		return ast.New(ast.KindLabel, name, el), nil
	}
	return el, nil
}

func (p *parser) parsePrefixed () (*ast.Node, error) {
	if !p.s.eof() && p.s.pk() == '~' {
		p.s.pos++
		p.s.skipFiller()
		inner, err := p.parsePrefixed()
		if err != nil {
			return nil, err
		}
		return ast.New(ast.KindNot, nil, inner), nil
	}
	if !p.s.eof() && p.s.pk() == '^' && p.s.pkAt(1) == '.' {
		p.s.pos += 2
		p.s.skipFiller()
		inner, err := p.parsePrefixed()
		if err != nil {
			return nil, err
		}
		return ast.New(ast.KindEndsIn, nil, inner), nil
	}
	if !p.s.eof() && p.s.pk() == '^' {
		p.s.pos++
		p.s.skipFiller()
		inner, err := p.parsePrefixed()
		if err != nil {
			return nil, err
		}
		return ast.New(ast.KindNotOne, nil, inner), nil
	}
	return p.parsePostfixed()
}

func (p *parser) parsePostfixed () (*ast.Node, error) {
	prim, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		if p.s.eof() {
			break
		}
		switch p.s.pk() {
		case '?':
			p.s.pos++
			prim = ast.New(ast.KindOpt, nil, prim)
		case '*':
			p.s.pos++
			prim = ast.New(ast.KindStar, nil, prim)
		case '+':
			p.s.pos++
			prim = ast.New(ast.KindPlus, nil, prim)
		case '{':
			if !isDigit(p.s.pkAt(1)) {
				return prim, nil
			}
			pair, err := p.parseCount()
			if err != nil {
				return nil, err
			}
			prim = ast.New(ast.KindCount, pair, prim)
		default:
			return prim, nil
		}
	}
	return prim, nil
}

func isDigit (r rune) bool { return r >= '0' && r <= '9' }

func (p *parser) parseCount () (ast.Pair, error) {
	startPos := p.s.here()
	p.s.pos++ // '{'
	lo := p.s.readNumber()
	hi := lo
	if !p.s.eof() && p.s.pk() == ',' {
		p.s.pos++
		hi = p.s.readNumber()
	}
	if p.s.eof() || p.s.pk() != '}' {
		return ast.Pair{}, expectedTokenError(p.s.here(), "'}'", string(p.s.pk()))
	}
	p.s.pos++
	loN, e1 := strconv.Atoi(lo)
	hiN, e2 := strconv.Atoi(hi)
	if e1 != nil || e2 != nil || loN < 0 || hiN < loN {
		return ast.Pair{}, badCountError(startPos, lo+","+hi)
	}
	return ast.Pair{Lo: loN, Hi: hiN}, nil
}

func (p *parser) parsePrimary () (*ast.Node, error) {
	startPos := p.s.here()
	if p.s.eof() {
		return p.fail(expectedExprError(startPos))
	}
	r := p.s.pk()

	switch {
	case r == '?' && (p.s.pkAt(1) == '(' || p.s.pkAt(1) == '{'):
		return p.parsePredicate()
	case r == '=' && p.s.pkAt(1) == '{':
		return p.parseEquals()
	case r == '.':
		p.s.pos++
		return ast.New(ast.KindAny, nil).WithSpan(startPos.Offset(), p.s.pos), nil
	case r == '\'' || r == '"':
		return p.parseQuotedElement()
	case r == '(':
		p.s.pos++
		p.s.skipFiller()
		inner, err := p.parseChoice()
		if err != nil {
			return nil, err
		}
		p.s.skipFiller()
		if p.s.eof() || p.s.pk() != ')' {
			return nil, expectedTokenError(p.s.here(), "')'", string(p.s.pk()))
		}
		p.s.pos++
		return ast.New(ast.KindParen, nil, inner), nil
	case r == '<':
		p.s.pos++
		p.s.skipFiller()
		inner, err := p.parseChoice()
		if err != nil {
			return nil, err
		}
		p.s.skipFiller()
		if p.s.eof() || p.s.pk() != '>' {
			return nil, expectedTokenError(p.s.here(), "'>'", string(p.s.pk()))
		}
		p.s.pos++
		return ast.New(ast.KindRun, nil, inner), nil
	case r == '[':
		return p.parseCharClass()
	case r == '/':
		re, err := p.s.readRegexp()
		if err != nil {
			return nil, err
		}
		return ast.New(ast.KindRegexp, re).WithSpan(startPos.Offset(), p.s.pos), nil
	case r == '\\' && p.s.pkAt(1) == 'p':
		return p.parseUnicat()
	case isIdentStart(r):
		name := p.s.readIdent()
		return ast.New(ast.KindApply, name).WithSpan(startPos.Offset(), p.s.pos), nil
	default:
		return p.fail(unexpectedCharError(startPos, r))
	}
}

func (p *parser) parsePredicate () (*ast.Node, error) {
	brace := p.s.pkAt(1) == '{'
	p.s.pos += 2 // "?(" or "?{"
	p.s.skipFiller()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.s.skipFiller()
	want := byte(')')
	if brace {
		want = '}'
	}
	if p.s.eof() || byte(p.s.pk()) != want {
		return nil, expectedTokenError(p.s.here(), "'"+string(want)+"'", string(p.s.pk()))
	}
	p.s.pos++
	return ast.New(ast.KindPred, nil, expr), nil
}

func (p *parser) parseEquals () (*ast.Node, error) {
	p.s.pos += 2 // "={"
	p.s.skipFiller()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.s.skipFiller()
	if p.s.eof() || p.s.pk() != '}' {
		return nil, expectedTokenError(p.s.here(), "'}'", string(p.s.pk()))
	}
	p.s.pos++
	return ast.New(ast.KindEquals, nil, expr), nil
}

func (p *parser) parseQuotedElement () (*ast.Node, error) {
	startPos := p.s.here()
	text, err := p.s.readQuoted()
	if err != nil {
		return nil, err
	}
	p.s.skipFiller()
	if !p.s.eof() && p.s.pk() == '.' && p.s.pkAt(1) == '.' {
		p.s.pos += 2
		p.s.skipFiller()
		hiText, err := p.s.readQuoted()
		if err != nil {
			return nil, err
		}
		if len([]rune(text)) != 1 || len([]rune(hiText)) != 1 {
			return nil, badCountError(startPos, text+".."+hiText)
		}
		lo := int([]rune(text)[0])
		hi := int([]rune(hiText)[0])
		return ast.New(ast.KindRange, ast.Pair{Lo: lo, Hi: hi}).WithSpan(startPos.Offset(), p.s.pos), nil
	}
	return ast.New(ast.KindLit, text).WithSpan(startPos.Offset(), p.s.pos), nil
}

func (p *parser) parseCharClass () (*ast.Node, error) {
	startPos := p.s.here()
	p.s.pos++ // '['
	negate := false
	if !p.s.eof() && p.s.pk() == '^' {
		negate = true
		p.s.pos++
	}
	var ranges []ast.Pair
	for {
		if p.s.eof() {
			return nil, unterminatedCharClassError(startPos)
		}
		if p.s.pk() == ']' {
			p.s.pos++
			break
		}
		lo, err := p.readClassChar()
		if err != nil {
			return nil, err
		}
		hi := lo
		if !p.s.eof() && p.s.pk() == '-' && p.s.pkAt(1) != ']' {
			p.s.pos++
			hi, err = p.readClassChar()
			if err != nil {
				return nil, err
			}
		}
		ranges = append(ranges, ast.Pair{Lo: int(lo), Hi: int(hi)})
	}
	cs := ast.CharSet{Negate: negate, Ranges: ranges}
	return ast.New(ast.KindSet, cs).WithSpan(startPos.Offset(), p.s.pos), nil
}

func (p *parser) readClassChar () (rune, error) {
	if p.s.pk() == '\\' {
		return p.s.readEscape()
	}
	return p.s.advance(), nil
}

func (p *parser) parseUnicat () (*ast.Node, error) {
	startPos := p.s.here()
	p.s.pos += 2 // "\p"
	if p.s.eof() || p.s.pk() != '{' {
		return nil, expectedTokenError(p.s.here(), "'{'", string(p.s.pk()))
	}
	p.s.pos++
	start := p.s.pos
	for !p.s.eof() && p.s.pk() != '}' {
		p.s.pos++
	}
	if p.s.eof() {
		return nil, expectedTokenError(p.s.here(), "'}'", "<eof>")
	}
	cat := string(p.s.src.Slice(start, p.s.pos))
	p.s.pos++
	return ast.New(ast.KindUnicat, cat).WithSpan(startPos.Offset(), p.s.pos), nil
}

// ---- pragmas ----

func (p *parser) parsePragma () (*ast.Node, error) {
	startPos := p.s.here()
	p.s.pos++ // '%'
	if !isIdentStart(p.s.pk()) {
		return nil, expectedTokenError(startPos, "a pragma name", string(p.s.pk()))
	}
	name := p.s.readIdent()
	p.s.skipFiller()

	switch name {
	case "whitespace", "comment":
		return p.parseExprPragma(name, startPos)
	case "tokens":
		return p.parseNameListPragma(name, startPos)
	case "externs":
		return p.parseExternsPragma(startPos)
	case "prec":
		return p.parseOpListPragma("prec", startPos)
	case "assoc":
		return p.parseAssocPragma(startPos)
	default:
		return nil, unknownPragmaError(startPos, name)
	}
}

func (p *parser) expect (ch rune) error {
	if p.s.eof() || p.s.pk() != ch {
		return expectedTokenError(p.s.here(), "'"+string(ch)+"'", string(p.s.pk()))
	}
	p.s.pos++
	return nil
}

func (p *parser) parseExprPragma (name string, startPos source.Pos) (*ast.Node, error) {
	if err := p.expect('='); err != nil {
		return nil, err
	}
	p.s.skipFiller()
	body, err := p.parseChoice()
	if err != nil {
		return nil, err
	}
	n := ast.New(ast.KindPragma, name, body)
	return n.WithSpan(startPos.Offset(), p.s.pos), nil
}

func (p *parser) parseNameListPragma (name string, startPos source.Pos) (*ast.Node, error) {
	if err := p.expect('='); err != nil {
		return nil, err
	}
	var names []string
	for {
		p.s.skipFiller()
		if p.s.eof() || !isIdentStart(p.s.pk()) || p.s.atRuleHeader() {
			break
		}
		names = append(names, p.s.readIdent())
	}
	n := ast.New(ast.KindPragma, name)
	n.SetAttr("names", names)
	return n.WithSpan(startPos.Offset(), p.s.pos), nil
}

func (p *parser) parseOpListPragma (name string, startPos source.Pos) (*ast.Node, error) {
	var ops []string
	for {
		p.s.skipFiller()
		if p.s.eof() || p.s.atRuleHeader() || p.s.pk() == '%' {
			break
		}
		ops = append(ops, p.readOperatorToken())
	}
	n := ast.New(ast.KindPragma, name)
	n.SetAttr("ops", ops)
	return n.WithSpan(startPos.Offset(), p.s.pos), nil
}

func (p *parser) parseAssocPragma (startPos source.Pos) (*ast.Node, error) {
	p.s.skipFiller()
	op := p.readOperatorToken()
	p.s.skipFiller()
	if !isIdentStart(p.s.pk()) {
		return nil, expectedTokenError(p.s.here(), "'left' or 'right'", string(p.s.pk()))
	}
	dir := p.s.readIdent()
	if dir != "left" && dir != "right" {
		return nil, expectedTokenError(startPos, "'left' or 'right'", dir)
	}
	n := ast.New(ast.KindPragma, "assoc")
	n.SetAttr("op", op)
	n.SetAttr("assoc", dir)
	return n.WithSpan(startPos.Offset(), p.s.pos), nil
}

func (p *parser) parseExternsPragma (startPos source.Pos) (*ast.Node, error) {
	if err := p.expect('='); err != nil {
		return nil, err
	}
	p.s.skipFiller()
	if !isIdentStart(p.s.pk()) {
		return nil, expectedTokenError(p.s.here(), "an extern name", string(p.s.pk()))
	}
	name := p.s.readIdent()
	p.s.skipFiller()
	if p.s.pk() != '-' || p.s.pkAt(1) != '>' {
		return nil, expectedTokenError(p.s.here(), "'->'", string(p.s.pk()))
	}
	p.s.pos += 2
	p.s.skipFiller()

	n := ast.New(ast.KindPragma, "externs")
	n.SetAttr("name", name)
	if isIdentStart(p.s.pk()) {
		save := p.s.pos
		word := p.s.readIdent()
		if word == "func" || word == "pfunc" {
			n.SetAttr("kind", word)
			return n.WithSpan(startPos.Offset(), p.s.pos), nil
		}
		p.s.pos = save
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	n.SetAttr("kind", "const")
	n.Ch = []*ast.Node{expr}
	return n.WithSpan(startPos.Offset(), p.s.pos), nil
}

// readOperatorToken reads one whitespace-delimited operator spelling
// for %prec/%assoc, either a bare symbol run (+, *, ==) or a quoted or
// bareword operator name (and, or).
func (p *parser) readOperatorToken () string {
	if p.s.pk() == '\'' || p.s.pk() == '"' {
		text, err := p.s.readQuoted()
		if err == nil {
			return text
		}
	}
	if isIdentStart(p.s.pk()) {
		return p.s.readIdent()
	}
	start := p.s.pos
	for !p.s.eof() && !isSpace(p.s.pk()) && p.s.pk() != '%' {
		p.s.pos++
	}
	return string(p.s.src.Slice(start, p.s.pos))
}

// ---- host expressions ----

func (p *parser) parseExpr () (*ast.Node, error) {
	return p.parseAddExpr()
}

func (p *parser) parseAddExpr () (*ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.s.skipFiller()
		if p.s.eof() {
			break
		}
		var kind ast.Kind
		switch p.s.pk() {
		case '+':
			kind = ast.KindEPlus
		case '-':
			kind = ast.KindEMinus
		default:
			return left, nil
		}
		p.s.pos++
		p.s.skipFiller()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.New(kind, nil, left, right)
	}
	return left, nil
}

func (p *parser) parseUnary () (*ast.Node, error) {
	p.s.skipFiller()
	if !p.s.eof() && p.s.pk() == '!' {
		p.s.pos++
		p.s.skipFiller()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.New(ast.KindENot, nil, inner), nil
	}
	return p.parsePostfixExpr()
}

func (p *parser) parsePostfixExpr () (*ast.Node, error) {
	prim, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		p.s.skipFiller()
		if p.s.eof() {
			break
		}
		switch p.s.pk() {
		case '(':
			p.s.pos++
			args, err := p.parseExprList(')')
			if err != nil {
				return nil, err
			}
			prim = ast.New(ast.KindECall, nil, append([]*ast.Node{prim}, args...)...)
		case '[':
			p.s.pos++
			p.s.skipFiller()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			p.s.skipFiller()
			if err := p.expect(']'); err != nil {
				return nil, err
			}
			prim = ast.New(ast.KindEGetitem, nil, prim, idx)
		case '.':
			if !isIdentStart(p.s.pkAt(1)) {
				return prim, nil
			}
			p.s.pos++
			field := p.s.readIdent()
			prim = ast.New(ast.KindEQual, field, prim)
		default:
			return prim, nil
		}
	}
	return prim, nil
}

func (p *parser) parseExprList (closer rune) ([]*ast.Node, error) {
	p.s.skipFiller()
	var items []*ast.Node
	if !p.s.eof() && p.s.pk() == closer {
		p.s.pos++
		return items, nil
	}
	for {
		p.s.skipFiller()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
		p.s.skipFiller()
		if p.s.eof() {
			return nil, expectedTokenError(p.s.here(), "','' or '"+string(closer)+"'", "<eof>")
		}
		if p.s.pk() == ',' {
			p.s.pos++
			continue
		}
		if err := p.expect(closer); err != nil {
			return nil, err
		}
		return items, nil
	}
}

func (p *parser) parsePrimaryExpr () (*ast.Node, error) {
	p.s.skipFiller()
	startPos := p.s.here()
	if p.s.eof() {
		return nil, expectedExprError(startPos)
	}
	r := p.s.pk()
	switch {
	case r == '\'' || r == '"':
		text, err := p.s.readQuoted()
		if err != nil {
			return nil, err
		}
		return ast.New(ast.KindELit, text).WithSpan(startPos.Offset(), p.s.pos), nil
	case isDigit(r):
		num := p.s.readNumber()
		if !p.s.eof() && (p.s.pk() == 'x' || p.s.pk() == 'X') && num == "0" {
			num += string(p.s.advance())
			start := p.s.pos
			for !p.s.eof() && isHexDigit(p.s.pk()) {
				p.s.pos++
			}
			num += string(p.s.src.Slice(start, p.s.pos))
		}
		return ast.New(ast.KindENum, num).WithSpan(startPos.Offset(), p.s.pos), nil
	case r == '$' && isDigit(p.s.pkAt(1)):
		p.s.pos++
		num := p.s.readNumber()
		return ast.New(ast.KindEIdent, "$"+num).WithSpan(startPos.Offset(), p.s.pos), nil
	case r == '[':
		p.s.pos++
		items, err := p.parseExprList(']')
		if err != nil {
			return nil, err
		}
		return ast.New(ast.KindEArr, nil, items...), nil
	case r == '(':
		p.s.pos++
		p.s.skipFiller()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.s.skipFiller()
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return ast.New(ast.KindEParen, nil, inner), nil
	case isIdentStart(r):
		name := p.s.readIdent()
		switch name {
		case "true", "false", "null", "Infinity", "NaN":
			return ast.New(ast.KindEConst, name).WithSpan(startPos.Offset(), p.s.pos), nil
		default:
			return ast.New(ast.KindEIdent, name).WithSpan(startPos.Offset(), p.s.pos), nil
		}
	default:
		return nil, unexpectedCharError(startPos, r)
	}
}
