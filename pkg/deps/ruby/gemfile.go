package ruby

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/gemdeps/pkg/deps"
	"github.com/matzehuels/gemdeps/pkg/errors"
)

// SyntaxError reports a Gemfile or Gemfile.lock that could not be parsed.
type SyntaxError struct {
	Path string // File name, if known
	Line int    // 1-based line number
	Msg  string
}

func (e *SyntaxError) Error() string {
	name := e.Path
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("%s:%d: %s", name, e.Line, e.Msg)
}

// ParseOptions configures [ParseGemfile].
type ParseOptions struct {
	Path   string               // File name used in errors
	Dir    string               // Directory searched for *.gemspec by `gemspec`
	Env    Environment          // Platform and environment for ShouldInclude
	Logger func(string, ...any) // Debug callback (optional)
}

type blockKind int

const (
	blockNeutral blockKind = iota
	blockGroup
	blockPlatforms
	blockSource
	blockCondition
)

type block struct {
	kind      blockKind
	line      int
	groups    []string
	platforms []string
	source    string
	include   bool
}

type gemfileParser struct {
	opts  ParseOptions
	stack []block
	decls []deps.Declaration
}

// ParseGemfile reads a Gemfile and returns its declarations in file order.
//
// Group and platform blocks nest: a declaration belongs to every group of
// every enclosing group block plus its own `group:`/`groups:` option, and
// defaults to the "default" group. ShouldInclude is false when the
// declaration's platforms do not match opts.Env, when it sits inside an
// `env` block whose variable is unset, or inside `install_if -> { false }`.
//
// Arbitrary Ruby is not evaluated. Conditionals and loops are tracked only
// to keep `end` balanced, and modifier conditions (`gem "x" if ...`) are
// ignored. A gem declared more than once yields one declaration per
// occurrence, each with its own groups and platforms; declaring it twice
// with different requirements is an error, as in Bundler.
func ParseGemfile(r io.Reader, opts ParseOptions) (*deps.Manifest, error) {
	opts.Env = opts.Env.withDefaults()
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	p := &gemfileParser{opts: opts}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		pending   string
		startLine int
		lineNo    int
	)
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if pending == "" {
			startLine = lineNo
		}
		if strings.HasSuffix(strings.TrimSpace(raw), "\\") {
			pending += strings.TrimSuffix(strings.TrimSpace(raw), "\\") + " "
			continue
		}
		text := pending + raw

		toks, err := lex(text)
		if err != nil {
			return nil, p.errorf(startLine, "%v", err)
		}
		if n := len(toks); n > 0 && (toks[n-1].is(tokPunct, ",") || depth(toks) > 0) {
			pending = text + " "
			continue
		}
		pending = ""

		for _, stmt := range splitStatements(toks) {
			if err := p.statement(stmt, startLine); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if pending != "" {
		return nil, p.errorf(startLine, "unexpected end of file in continued statement")
	}
	if n := len(p.stack); n > 0 {
		return nil, p.errorf(p.stack[n-1].line, "block is never closed with `end`")
	}

	return &deps.Manifest{Path: opts.Path, Declarations: p.decls}, nil
}

func (p *gemfileParser) errorf(line int, format string, args ...any) error {
	return &SyntaxError{Path: p.opts.Path, Line: line, Msg: fmt.Sprintf(format, args...)}
}

var neutralKeywords = map[string]bool{
	"if": true, "unless": true, "case": true, "begin": true,
	"while": true, "until": true, "def": true, "module": true, "class": true,
}

// valueKeywords open a block when they start the right-hand side of an
// assignment.
var valueKeywords = map[string]bool{
	"if": true, "unless": true, "case": true, "begin": true, "while": true, "until": true,
}

func (p *gemfileParser) statement(toks []token, line int) error {
	if len(toks) == 0 {
		return nil
	}
	if opensAssignedBlock(toks) {
		p.push(block{kind: blockNeutral, line: line})
		return nil
	}
	head := toks[0]
	if head.kind != tokIdent {
		if hasDo(toks) {
			p.push(block{kind: blockNeutral, line: line})
		}
		return nil
	}

	switch head.text {
	case "end":
		if len(p.stack) == 0 {
			return p.errorf(line, "unexpected `end`")
		}
		p.stack = p.stack[:len(p.stack)-1]
		return nil
	case "else", "elsif", "when", "in", "rescue", "ensure":
		return nil
	}

	if neutralKeywords[head.text] {
		// One-line forms like `if x then y end` close themselves.
		if !toks[len(toks)-1].is(tokIdent, "end") {
			p.push(block{kind: blockNeutral, line: line})
		}
		return nil
	}

	args, opened := splitBlock(toks[1:])

	var err error
	switch head.text {
	case "gem":
		err = p.gem(args, line)
	case "gemspec":
		p.gemspec(args, line)
	case "group":
		err = p.openGroup(args, opened, line)
		opened = false
	case "platforms", "platform":
		err = p.openPlatforms(args, opened, line)
		opened = false
	case "source", "git", "path", "github":
		if opened {
			src, _ := firstString(args)
			p.push(block{kind: blockSource, line: line, source: src, include: true})
			opened = false
		}
	case "env":
		if opened {
			p.push(block{kind: blockCondition, line: line, include: p.envCondition(args)})
			opened = false
		}
	case "install_if":
		if opened {
			p.push(block{kind: blockCondition, line: line, include: lambdaValue(args)})
			opened = false
		}
	}
	if err != nil {
		return err
	}
	if opened {
		p.push(block{kind: blockNeutral, line: line})
	}
	return nil
}

func (p *gemfileParser) push(b block) { p.stack = append(p.stack, b) }

func (p *gemfileParser) gem(args []token, line int) error {
	pos, kw := parseArgs(args)
	if len(pos) == 0 || pos[0].kind != tokString {
		return p.errorf(line, "gem declaration without a name")
	}
	name := pos[0].text
	if err := errors.ValidateGemName(name); err != nil {
		return p.errorf(line, "%s", errors.UserMessage(err))
	}

	var reqs []string
	for _, t := range pos[1:] {
		if t.kind == tokString {
			reqs = append(reqs, t.text)
		}
	}

	groups := p.enclosingGroups()
	groups = appendUnique(groups, kw["group"]...)
	groups = appendUnique(groups, kw["groups"]...)
	if len(groups) == 0 {
		groups = []string{deps.DefaultGroup}
	}

	platforms := p.enclosingPlatforms()
	platforms = appendUnique(platforms, kw["platform"]...)
	platforms = appendUnique(platforms, kw["platforms"]...)

	include := p.opts.Env.Applies(platforms) && p.conditionsHold()
	if v, ok := kw["install_if"]; ok && len(v) == 1 && v[0] == "false" {
		include = false
	}

	source := p.enclosingSource()
	for _, k := range []string{"git", "github", "path", "source"} {
		if v, ok := kw[k]; ok && len(v) == 1 {
			source = v[0]
			break
		}
	}

	d := deps.Declaration{
		Name:          name,
		Requirements:  reqs,
		Groups:        groups,
		Platforms:     platforms,
		Source:        source,
		Line:          line,
		ShouldInclude: include,
	}
	return p.add(d)
}

func (p *gemfileParser) add(d deps.Declaration) error {
	logged := false
	for _, prev := range p.decls {
		if prev.Name != d.Name {
			continue
		}
		if len(prev.Requirements) > 0 && len(d.Requirements) > 0 && !slices.Equal(prev.Requirements, d.Requirements) {
			return p.errorf(d.Line, "gem %s is declared twice with different requirements (%s and %s, line %d)",
				d.Name, strings.Join(prev.Requirements, ", "), strings.Join(d.Requirements, ", "), prev.Line)
		}
		if !logged {
			p.opts.Logger("gem %s declared twice (lines %d and %d)", d.Name, prev.Line, d.Line)
			logged = true
		}
	}
	p.decls = append(p.decls, d)
	return nil
}

// gemspec declares the project's own gem, named by `name:` or by the single
// *.gemspec file next to the Gemfile.
func (p *gemfileParser) gemspec(args []token, line int) {
	_, kw := parseArgs(args)
	name := first(kw["name"])
	if name == "" && p.opts.Dir != "" {
		dir := filepath.Join(p.opts.Dir, first(kw["path"]))
		matches, _ := filepath.Glob(filepath.Join(dir, "*.gemspec"))
		if len(matches) == 1 {
			name = strings.TrimSuffix(filepath.Base(matches[0]), ".gemspec")
		}
	}
	if name == "" {
		p.opts.Logger("line %d: cannot determine gemspec name, skipping", line)
		return
	}
	path := first(kw["path"])
	if path == "" {
		path = "."
	}
	_ = p.add(deps.Declaration{
		Name:          name,
		Groups:        []string{deps.DefaultGroup},
		Source:        path,
		Line:          line,
		ShouldInclude: p.conditionsHold(),
	})
}

func (p *gemfileParser) openGroup(args []token, opened bool, line int) error {
	if !opened {
		return p.errorf(line, "group requires a block")
	}
	pos, _ := parseArgs(args)
	names := symbolsOrStrings(pos)
	if len(names) == 0 {
		return p.errorf(line, "group block without group names")
	}
	p.push(block{kind: blockGroup, line: line, groups: names, include: true})
	return nil
}

func (p *gemfileParser) openPlatforms(args []token, opened bool, line int) error {
	if !opened {
		return p.errorf(line, "platforms requires a block")
	}
	pos, _ := parseArgs(args)
	p.push(block{kind: blockPlatforms, line: line, platforms: symbolsOrStrings(pos), include: true})
	return nil
}

// envCondition evaluates `env "VAR"` and `env "VAR" => "value"`. A variable
// that is set to the empty string still counts as set.
func (p *gemfileParser) envCondition(args []token) bool {
	pos, kw := parseArgs(args)
	if len(pos) > 0 {
		_, ok := p.opts.Env.LookupEnv(pos[0].text)
		return ok
	}
	for k, v := range kw {
		val, ok := p.opts.Env.LookupEnv(k)
		return ok && val == first(v)
	}
	return false
}

func (p *gemfileParser) enclosingGroups() []string {
	var out []string
	for _, b := range p.stack {
		if b.kind == blockGroup {
			out = appendUnique(out, b.groups...)
		}
	}
	return out
}

func (p *gemfileParser) enclosingPlatforms() []string {
	var out []string
	for _, b := range p.stack {
		if b.kind == blockPlatforms {
			out = appendUnique(out, b.platforms...)
		}
	}
	return out
}

func (p *gemfileParser) enclosingSource() string {
	for _, b := range slices.Backward(p.stack) {
		if b.kind == blockSource {
			return b.source
		}
	}
	return ""
}

func (p *gemfileParser) conditionsHold() bool {
	for _, b := range p.stack {
		if b.kind == blockCondition && !b.include {
			return false
		}
	}
	return true
}

// splitBlock strips a trailing `do` / `do |x|` from a statement and reports
// whether one was present.
func splitBlock(toks []token) ([]token, bool) {
	for i, t := range toks {
		if t.is(tokIdent, "do") {
			return toks[:i], true
		}
	}
	return toks, false
}

func hasDo(toks []token) bool {
	_, ok := splitBlock(toks)
	return ok
}

// opensAssignedBlock reports whether toks assign a multi-line conditional or
// begin block, as in `ver = if ENV["X"]` or `x ||= begin`.
func opensAssignedBlock(toks []token) bool {
	if toks[len(toks)-1].is(tokIdent, "end") {
		return false
	}
	d := 0
	for i, t := range toks[:len(toks)-1] {
		if t.kind != tokPunct {
			continue
		}
		switch t.text {
		case "[", "(", "{":
			d++
		case "]", ")", "}":
			d--
		case "=":
			if d != 0 || i == 0 || isComparison(toks[i-1]) {
				continue
			}
			if next := toks[i+1]; next.kind == tokIdent && valueKeywords[next.text] {
				return true
			}
		}
	}
	return false
}

// isComparison reports whether t combines with a following `=` into an
// operator other than assignment (==, !=, <=, >=).
func isComparison(t token) bool {
	return t.kind == tokPunct && (t.text == "=" || t.text == "!" || t.text == "<" || t.text == ">")
}

// splitStatements splits one logical line on `;` outside brackets.
func splitStatements(toks []token) [][]token {
	var (
		out   [][]token
		start int
		d     int
	)
	for i, t := range toks {
		if t.kind != tokPunct {
			continue
		}
		switch t.text {
		case "[", "(", "{":
			d++
		case "]", ")", "}":
			d--
		case ";":
			if d == 0 {
				out = append(out, toks[start:i])
				start = i + 1
			}
		}
	}
	return append(out, toks[start:])
}

// parseArgs splits call arguments into positional values and keyword options.
// Parsing stops at a modifier `if`/`unless`.
func parseArgs(toks []token) (pos []token, kw map[string][]string) {
	kw = make(map[string][]string)
	if len(toks) > 0 && toks[0].is(tokPunct, "(") {
		toks = toks[1:]
		if n := len(toks); n > 0 && toks[n-1].is(tokPunct, ")") {
			toks = toks[:n-1]
		}
	}

	for _, seg := range splitTopLevel(toks) {
		if len(seg) == 0 {
			continue
		}
		switch {
		case seg[0].kind == tokLabel:
			kw[seg[0].text] = values(seg[1:])
		case len(seg) >= 2 && seg[1].is(tokPunct, "=>") && (seg[0].kind == tokSymbol || seg[0].kind == tokString):
			kw[seg[0].text] = values(seg[2:])
		case len(seg) == 1:
			pos = append(pos, seg[0])
		}
	}
	return pos, kw
}

// splitTopLevel splits toks on commas that are not nested in brackets.
func splitTopLevel(toks []token) [][]token {
	var (
		out   [][]token
		start int
		d     int
	)
	for i, t := range toks {
		if d == 0 && t.kind == tokIdent && (t.text == "if" || t.text == "unless") {
			toks = toks[:i]
			break
		}
		if t.kind != tokPunct {
			continue
		}
		switch t.text {
		case "[", "(", "{":
			d++
		case "]", ")", "}":
			d--
		case ",":
			if d == 0 {
				out = append(out, toks[start:i])
				start = i + 1
			}
		}
	}
	if start <= len(toks) {
		out = append(out, toks[start:])
	}
	return out
}

// values converts the tokens of an option value to strings. Arrays flatten
// to their elements; anything that is not a literal becomes "?".
func values(toks []token) []string {
	if len(toks) == 1 {
		switch toks[0].kind {
		case tokString, tokSymbol, tokIdent:
			return []string{toks[0].text}
		case tokWords:
			return toks[0].words
		}
	}
	if len(toks) >= 2 && toks[0].is(tokPunct, "[") && toks[len(toks)-1].is(tokPunct, "]") {
		var out []string
		for _, t := range toks[1 : len(toks)-1] {
			if t.kind == tokString || t.kind == tokSymbol {
				out = append(out, t.text)
			}
		}
		return out
	}
	if v := lambdaLiteral(toks); v != "" {
		return []string{v}
	}
	return []string{"?"}
}

// lambdaLiteral recognises `-> { true }`, `proc { false }` and
// `lambda { false }`, returning the literal or "".
func lambdaLiteral(toks []token) string {
	if len(toks) > 0 && (toks[0].is(tokPunct, "->") || toks[0].is(tokIdent, "proc") || toks[0].is(tokIdent, "lambda")) {
		toks = toks[1:]
	}
	if len(toks) == 3 && toks[0].is(tokPunct, "{") && toks[2].is(tokPunct, "}") &&
		(toks[1].is(tokIdent, "true") || toks[1].is(tokIdent, "false")) {
		return toks[1].text
	}
	return ""
}

// lambdaValue evaluates an install_if argument. Only literal false
// excludes; anything that needs Ruby to evaluate counts as true.
func lambdaValue(args []token) bool {
	return lambdaLiteral(args) != "false"
}

func symbolsOrStrings(toks []token) []string {
	var out []string
	for _, t := range toks {
		switch t.kind {
		case tokSymbol, tokString:
			out = append(out, t.text)
		case tokWords:
			out = append(out, t.words...)
		}
	}
	return out
}

func firstString(toks []token) (string, bool) {
	for _, t := range toks {
		if t.kind == tokString {
			return t.text, true
		}
	}
	return "", false
}

func first(v []string) string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

func appendUnique(dst []string, items ...string) []string {
	for _, it := range items {
		if it != "" && it != "?" && !slices.Contains(dst, it) {
			dst = append(dst, it)
		}
	}
	return dst
}
