/*
   Micro16 two-pass assembler.

   Copyright (c) 2025, Micro16 Project contributors

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
   SOFTWARE.
*/

// Package assembler turns Micro16 assembly source into a byte image,
// by a classic two-pass design: Pass 1 walks the source computing
// every label's address (instruction sizes depend only on operand
// syntax, never on resolved values, so this needs no relaxation
// pass); Pass 2 re-walks the source with a complete symbol table and
// emits bytes.
package assembler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mach16/micro16/emu/isa"
)

// Error is a failed assembly's single diagnostic: line number and
// message. The first error halts assembly; there is no
// resynchronisation.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

const (
	// maxImageSize bounds assembler output to the machine's address space.
	maxImageSize = 1 << 20

	// maxIdentLen is the identifier length limit of the lexical
	// grammar.
	maxIdentLen = 63

	// initialOrigin is the output address before any ORG directive.
	initialOrigin = 0x0100
)

// Result is a completed assembly: the byte image and the image base
// (the minimum origin at which bytes were emitted), the address the
// image must be loaded at for execution.
type Result struct {
	Image  []byte
	Origin uint32
}

type sourceLine struct {
	number    int
	label     string
	mnemonic  string
	operands  string
	directive string
}

// layout is what Pass 1 learns about the program's placement.
type layout struct {
	base int64 // lowest emitting address
	end  int64 // one past the highest byte written
	any  bool  // at least one byte is emitted
}

func (l *layout) emit(pc, n int64) {
	if n == 0 {
		return
	}
	if !l.any || pc < l.base {
		l.base = pc
	}
	if pc+n > l.end {
		l.end = pc + n
	}
	l.any = true
}

func (l *layout) length() int64 {
	if !l.any {
		return 0
	}
	return l.end - l.base
}

// Assemble compiles source into a byte image.
func Assemble(source string) (*Result, error) {
	lines, err := splitLines(source)
	if err != nil {
		return nil, err
	}

	symbols := map[string]int32{}
	lay, err := firstPass(lines, symbols)
	if err != nil {
		return nil, err
	}
	if lay.length() > maxImageSize {
		return nil, &Error{Message: fmt.Sprintf("output too large: %d bytes", lay.length())}
	}

	image := make([]byte, lay.length())
	if err := secondPass(lines, symbols, lay, image); err != nil {
		return nil, err
	}

	origin := uint32(0)
	if lay.any {
		origin = uint32(lay.base)
	}
	return &Result{Image: image, Origin: origin}, nil
}

// directiveNames canonicalises a directive token, accepting both the
// plain and the dotted spelling and the .BYTE/.WORD/.DWORD/.SPACE
// aliases.
var directiveNames = map[string]string{
	"ORG": "ORG", ".ORG": "ORG",
	"SEGMENT": "SEGMENT", ".SEGMENT": "SEGMENT",
	"EQU": "EQU",
	"DB":  "DB", ".BYTE": "DB",
	"DW": "DW", ".WORD": "DW",
	"DD": "DD", ".DWORD": "DD",
	"DS": "DS", ".SPACE": "DS",
}

// splitLines tokenises each source line into an optional label,
// mnemonic/directive, and the raw operand text, stripping comments.
// Mnemonics are canonicalised by uppercasing on read; the raw source
// spelling survives in operand text so error messages show what the
// user wrote.
func splitLines(source string) ([]sourceLine, error) {
	var out []sourceLine
	for i, raw := range strings.Split(source, "\n") {
		lineNo := i + 1
		text := stripComment(raw)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		var label string
		if idx := strings.IndexByte(text, ':'); idx >= 0 && isLabelToken(text[:idx]) {
			label = strings.ToUpper(strings.TrimSpace(text[:idx]))
			if len(label) > maxIdentLen {
				return nil, &Error{Line: lineNo, Message: "identifier too long: " + label}
			}
			text = strings.TrimSpace(text[idx+1:])
			if text == "" {
				out = append(out, sourceLine{number: lineNo, label: label})
				continue
			}
		}

		// Symbol definition by '=', with or without surrounding spaces:
		// NAME = value.
		if label == "" {
			if idx := strings.IndexByte(text, '='); idx > 0 && isLabelToken(text[:idx]) {
				name := strings.ToUpper(strings.TrimSpace(text[:idx]))
				if len(name) > maxIdentLen {
					return nil, &Error{Line: lineNo, Message: "identifier too long: " + name}
				}
				out = append(out, sourceLine{
					number:    lineNo,
					label:     name,
					directive: "EQU",
					operands:  strings.TrimSpace(text[idx+1:]),
				})
				continue
			}
		}

		word, rest := getName(text)
		upper := strings.ToUpper(word)

		// Symbol definition by the EQU keyword: NAME EQU value. The
		// name stands first with no colon, so it arrives here looking
		// like a mnemonic.
		if label == "" && isLabelToken(word) {
			defWord, defRest := getName(rest)
			if strings.ToUpper(defWord) == "EQU" || defWord == "=" {
				if len(upper) > maxIdentLen {
					return nil, &Error{Line: lineNo, Message: "identifier too long: " + word}
				}
				out = append(out, sourceLine{
					number:    lineNo,
					label:     upper,
					directive: "EQU",
					operands:  strings.TrimSpace(defRest),
				})
				continue
			}
		}

		sl := sourceLine{number: lineNo, label: label, operands: strings.TrimSpace(rest)}
		if d, ok := directiveNames[upper]; ok {
			sl.directive = d
		} else {
			sl.mnemonic = upper
		}
		out = append(out, sl)
	}
	return out, nil
}

// stripComment removes a ; comment, respecting quoted literals so
// that DB "a;b" and ';' survive intact.
func stripComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == ';':
			return line[:i]
		}
	}
	return line
}

func isLabelToken(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	for i, r := range s {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return false
		}
		if i > 0 && !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

// defineSymbol adds a name to the table, enforcing uniqueness across
// labels and equates.
func defineSymbol(symbols map[string]int32, name string, value int32, line int) error {
	if _, dup := symbols[name]; dup {
		return &Error{Line: line, Message: "duplicate symbol " + name}
	}
	symbols[name] = value
	return nil
}

// firstPass computes every label's address and the image layout.
// Instruction size never depends on a resolved symbol value, only on
// operand syntax, so one forward walk suffices. Labels resolve to the
// output address at their point of definition.
func firstPass(lines []sourceLine, symbols map[string]int32) (layout, error) {
	var lay layout
	pc := int64(initialOrigin)

	for _, ln := range lines {
		if ln.label != "" && ln.directive != "EQU" {
			if err := defineSymbol(symbols, ln.label, int32(pc), ln.number); err != nil {
				return lay, err
			}
		}

		switch ln.directive {
		case "":
			if ln.mnemonic == "" {
				continue
			}
			size, err := instructionSize(ln)
			if err != nil {
				return lay, &Error{Line: ln.number, Message: err.Error()}
			}
			lay.emit(pc, int64(size))
			pc += int64(size)

		case "ORG":
			v, err := evalConstant(ln.operands, symbols)
			if err != nil {
				return lay, &Error{Line: ln.number, Message: "bad ORG operand: " + err.Error()}
			}
			pc = int64(uint32(v))

		case "SEGMENT":
			if _, err := evalConstant(ln.operands, symbols); err != nil {
				return lay, &Error{Line: ln.number, Message: "bad SEGMENT operand: " + err.Error()}
			}

		case "EQU":
			v, err := evalConstant(ln.operands, symbols)
			if err != nil {
				return lay, &Error{Line: ln.number, Message: "bad EQU operand: " + err.Error()}
			}
			if err := defineSymbol(symbols, ln.label, v, ln.number); err != nil {
				return lay, err
			}

		case "DB", "DW", "DD":
			n, err := dataLength(ln.operands, dataWidth(ln.directive))
			if err != nil {
				return lay, &Error{Line: ln.number, Message: err.Error()}
			}
			lay.emit(pc, int64(n))
			pc += int64(n)

		case "DS":
			v, err := evalConstant(ln.operands, symbols)
			if err != nil {
				return lay, &Error{Line: ln.number, Message: "bad DS operand: " + err.Error()}
			}
			if v < 0 {
				return lay, &Error{Line: ln.number, Message: fmt.Sprintf("negative DS count %d", v)}
			}
			lay.emit(pc, int64(v))
			pc += int64(v)
		}
	}

	return lay, nil
}

func dataWidth(directive string) int {
	switch directive {
	case "DW":
		return 2
	case "DD":
		return 4
	default:
		return 1
	}
}

// secondPass re-walks the source with the completed symbol table,
// emitting bytes directly into image (sized exactly to fit).
func secondPass(lines []sourceLine, symbols map[string]int32, lay layout, image []byte) error {
	pc := int64(initialOrigin)
	segBase := int64(0)
	put := func(off int64, b []byte) {
		copy(image[off-lay.base:], b)
	}

	for _, ln := range lines {
		switch ln.directive {
		case "":
			if ln.mnemonic == "" {
				continue
			}
			enc, err := encodeInstruction(ln, symbols, pc, segBase)
			if err != nil {
				return &Error{Line: ln.number, Message: err.Error()}
			}
			put(pc, enc)
			pc += int64(len(enc))

		case "ORG":
			v, _ := evalConstant(ln.operands, symbols)
			pc = int64(uint32(v))

		case "SEGMENT":
			v, _ := evalConstant(ln.operands, symbols)
			segBase = int64(uint16(v)) << 4

		case "EQU":
			// Values already captured in Pass 1.

		case "DB", "DW", "DD":
			bytes, err := encodeDataBytes(ln.operands, dataWidth(ln.directive), symbols)
			if err != nil {
				return &Error{Line: ln.number, Message: err.Error()}
			}
			put(pc, bytes)
			pc += int64(len(bytes))

		case "DS":
			v, _ := evalConstant(ln.operands, symbols)
			pc += int64(v)
		}
	}
	return nil
}

// ---- operand parsing -------------------------------------------------

type operandKind int

const (
	kindReg operandKind = iota
	kindSeg
	kindSP
	kindCL // runtime shift count, encoded as count4 == 0
	kindImm
	kindMem
	kindFar // seg:offset literal
)

// operand is a parsed operand. For kindImm the value/label pair is an
// expression of the grammar "number | symbol | symbol±number": label
// names the symbol (empty for a plain number) and value carries the
// constant or the signed addend. kindMem reuses the pair for its
// displacement, plus an optional base register; kindFar adds a second
// pair for the segment half.
type operand struct {
	kind     operandKind
	reg      int
	seg      int
	value    int32
	label    string
	hasBase  bool
	baseIsSP bool
	baseReg  int
	segValue int32
	segLabel string
}

func (o operand) resolve(symbols map[string]int32) (int32, error) {
	return resolveExpr(o.value, o.label, symbols)
}

func (o operand) resolveSeg(symbols map[string]int32) (int32, error) {
	return resolveExpr(o.segValue, o.segLabel, symbols)
}

func resolveExpr(value int32, label string, symbols map[string]int32) (int32, error) {
	if label == "" {
		return value, nil
	}
	v, ok := symbols[label]
	if !ok {
		return 0, fmt.Errorf("undefined symbol %s", label)
	}
	return v + value, nil
}

func parseOperandList(text string) []string {
	if text == "" {
		return nil
	}
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '[' || ch == '(':
			depth++
		case ch == ']' || ch == ')':
			depth--
		case ch == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(text[start:i]))
			start = i + 1
		}
	}
	parts = append(parts, strings.TrimSpace(text[start:]))
	return parts
}

func regIndex(name string) (int, bool) {
	name = strings.ToUpper(name)
	for i, n := range isa.RegNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func segIndex(name string) (int, bool) {
	name = strings.ToUpper(name)
	for i, n := range isa.SegNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func parseOperand(text string) (operand, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return operand{}, fmt.Errorf("expected operand")
	}

	if strings.HasPrefix(text, "#") {
		v, label, err := parseExpr(text[1:])
		if err != nil {
			return operand{}, err
		}
		return operand{kind: kindImm, value: v, label: label}, nil
	}

	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		return parseMemOperand(text[1 : len(text)-1])
	}

	if strings.EqualFold(text, "SP") {
		return operand{kind: kindSP}, nil
	}
	if strings.EqualFold(text, "CL") {
		return operand{kind: kindCL}, nil
	}
	if r, ok := regIndex(text); ok {
		return operand{kind: kindReg, reg: r}, nil
	}
	if s, ok := segIndex(text); ok {
		return operand{kind: kindSeg, seg: s}, nil
	}

	// A far pointer literal: seg:offset, both halves expressions.
	// Character literals may contain a colon, so only split outside
	// quotes.
	if idx := colonOutsideQuotes(text); idx >= 0 {
		segV, segL, err := parseExpr(text[:idx])
		if err != nil {
			return operand{}, err
		}
		offV, offL, err := parseExpr(text[idx+1:])
		if err != nil {
			return operand{}, err
		}
		return operand{kind: kindFar, value: offV, label: offL, segValue: segV, segLabel: segL}, nil
	}

	// Bare expression: branch targets, immediates without #, directive
	// operands.
	v, label, err := parseExpr(text)
	if err != nil {
		return operand{}, err
	}
	return operand{kind: kindImm, value: v, label: label}, nil
}

func colonOutsideQuotes(text string) int {
	var quote byte
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == ':':
			return i
		}
	}
	return -1
}

func parseMemOperand(inner string) (operand, error) {
	inner = strings.TrimSpace(inner)

	sign := int32(1)
	splitAt := -1
	for i, r := range inner {
		if i == 0 {
			continue
		}
		if r == '+' || r == '-' {
			splitAt = i
			if r == '-' {
				sign = -1
			}
			break
		}
	}

	base := inner
	dispText := ""
	if splitAt >= 0 {
		base = strings.TrimSpace(inner[:splitAt])
		dispText = strings.TrimSpace(inner[splitAt+1:])
	}

	if strings.EqualFold(base, "SP") || regNameOnly(base) {
		disp := int32(0)
		if dispText != "" {
			v, label, err := parseExpr(dispText)
			if err != nil {
				return operand{}, err
			}
			if label != "" {
				return operand{}, fmt.Errorf("indexed displacement must be a constant")
			}
			disp = sign * v
		}
		if strings.EqualFold(base, "SP") {
			return operand{kind: kindMem, hasBase: true, baseIsSP: true, value: disp}, nil
		}
		r, _ := regIndex(base)
		return operand{kind: kindMem, hasBase: true, baseReg: r, value: disp}, nil
	}

	// No recognised base register: direct addressing by absolute
	// address, symbol, or symbol±number.
	v, label, err := parseExpr(inner)
	if err != nil {
		return operand{}, err
	}
	return operand{kind: kindMem, value: v, label: label}, nil
}

func regNameOnly(s string) bool {
	_, ok := regIndex(s)
	return ok
}

// parseExpr parses one operand expression: a number, a symbol, or
// symbol±number. No general arithmetic. The symbol half comes back in
// label (uppercased); value holds the number or addend.
func parseExpr(text string) (value int32, label string, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, "", fmt.Errorf("expected a value")
	}

	// Leading symbol?
	if r := rune(text[0]); unicode.IsLetter(r) || r == '_' {
		i := 1
		for i < len(text) {
			r := rune(text[i])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			i++
		}
		name := text[:i]
		if len(name) > maxIdentLen {
			return 0, "", fmt.Errorf("identifier too long: %s", name)
		}
		rest := strings.TrimSpace(text[i:])
		if rest == "" {
			return 0, strings.ToUpper(name), nil
		}
		sign := int32(1)
		switch rest[0] {
		case '+':
		case '-':
			sign = -1
		default:
			return 0, "", fmt.Errorf("invalid expression %q", text)
		}
		n, err := parseNumber(strings.TrimSpace(rest[1:]))
		if err != nil {
			return 0, "", err
		}
		return sign * n, strings.ToUpper(name), nil
	}

	n, err := parseNumber(text)
	if err != nil {
		return 0, "", err
	}
	return n, "", nil
}

// parseNumber accepts 0x… and $… hex, 0b… binary, decimal, and
// single-character literals with the usual escapes.
func parseNumber(text string) (int32, error) {
	if text == "" {
		return 0, fmt.Errorf("expected a number")
	}

	neg := false
	if text[0] == '-' {
		neg = true
		text = strings.TrimSpace(text[1:])
		if text == "" {
			return 0, fmt.Errorf("invalid number")
		}
	}

	var v int64
	var err error
	switch {
	case text[0] == '\'':
		b, cerr := parseCharLiteral(text)
		if cerr != nil {
			return 0, cerr
		}
		v = int64(b)
	case strings.HasPrefix(strings.ToLower(text), "0x"):
		v, err = strconv.ParseInt(text[2:], 16, 64)
	case text[0] == '$':
		v, err = strconv.ParseInt(text[1:], 16, 64)
	case strings.HasPrefix(strings.ToLower(text), "0b"):
		v, err = strconv.ParseInt(text[2:], 2, 64)
	default:
		v, err = strconv.ParseInt(text, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", text)
	}
	if neg {
		v = -v
	}
	return int32(v), nil
}

func parseCharLiteral(text string) (byte, error) {
	if len(text) < 3 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return 0, fmt.Errorf("invalid character literal %q", text)
	}
	body := text[1 : len(text)-1]
	if body[0] == '\\' {
		if len(body) != 2 {
			return 0, fmt.Errorf("invalid escape in %q", text)
		}
		b, ok := unescape(body[1])
		if !ok {
			return 0, fmt.Errorf("invalid escape in %q", text)
		}
		return b, nil
	}
	if len(body) != 1 {
		return 0, fmt.Errorf("invalid character literal %q", text)
	}
	return body[0], nil
}

func unescape(ch byte) (byte, bool) {
	switch ch {
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case '0':
		return 0, true
	case '\\':
		return '\\', true
	case '\'':
		return '\'', true
	case '"':
		return '"', true
	default:
		return 0, false
	}
}

func evalConstant(text string, symbols map[string]int32) (int32, error) {
	v, label, err := parseExpr(strings.TrimSpace(text))
	if err != nil {
		return 0, err
	}
	return resolveExpr(v, label, symbols)
}

// stringLiteral unpacks a "…" or '…' item into its raw bytes,
// applying escapes. Single-character '…' items are indistinguishable
// from character literals and emit the same byte either way.
func stringLiteral(item string) ([]byte, bool, error) {
	if len(item) < 2 {
		return nil, false, nil
	}
	q := item[0]
	if q != '"' && q != '\'' {
		return nil, false, nil
	}
	if item[len(item)-1] != q {
		return nil, false, fmt.Errorf("unterminated string %s", item)
	}
	body := item[1 : len(item)-1]
	var out []byte
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch == '\\' {
			i++
			if i >= len(body) {
				return nil, false, fmt.Errorf("unterminated escape in %s", item)
			}
			b, ok := unescape(body[i])
			if !ok {
				return nil, false, fmt.Errorf("invalid escape in %s", item)
			}
			out = append(out, b)
			continue
		}
		out = append(out, ch)
	}
	return out, true, nil
}

// dataLength computes how many bytes a DB/DW/DD operand list emits;
// needed by Pass 1 before symbols resolve. Strings count their raw
// byte length; every other item emits the directive's width.
func dataLength(text string, width int) (int, error) {
	total := 0
	for _, item := range parseOperandList(text) {
		if item == "" {
			return 0, fmt.Errorf("empty data item")
		}
		raw, isString, err := stringLiteral(item)
		if err != nil {
			return 0, err
		}
		if isString && (width == 1 || len(raw) != 1) {
			total += len(raw)
			continue
		}
		total += width
	}
	return total, nil
}

func encodeDataBytes(text string, width int, symbols map[string]int32) ([]byte, error) {
	var out []byte
	for _, item := range parseOperandList(text) {
		if item == "" {
			return nil, fmt.Errorf("empty data item")
		}
		raw, isString, err := stringLiteral(item)
		if err != nil {
			return nil, err
		}
		if isString && (width == 1 || len(raw) != 1) {
			out = append(out, raw...)
			continue
		}
		v, err := evalConstant(item, symbols)
		if err != nil {
			return nil, err
		}
		for i := 0; i < width; i++ {
			out = append(out, byte(uint32(v)>>(8*i)))
		}
	}
	return out, nil
}

// ---- lexer helpers ---------------------------------------------------

func skipSpace(str string) string {
	for i := range str {
		if !unicode.IsSpace(rune(str[i])) {
			return str[i:]
		}
	}
	return ""
}

func getName(str string) (string, string) {
	str = skipSpace(str)
	for i := range str {
		if unicode.IsSpace(rune(str[i])) {
			return str[:i], str[i+1:]
		}
	}
	return str, ""
}

// ---- instruction dispatch --------------------------------------------

func parseOperands(text string) ([]operand, error) {
	parts := parseOperandList(strings.TrimSpace(text))
	var ops []operand
	for _, p := range parts {
		if p == "" {
			continue
		}
		o, err := parseOperand(p)
		if err != nil {
			return nil, err
		}
		ops = append(ops, o)
	}
	return ops, nil
}

func rowFor(opcode byte) (*isa.Info, error) {
	if r := isa.ByOpcode[opcode]; r != nil {
		return r, nil
	}
	return nil, fmt.Errorf("internal: no table row for opcode 0x%02X", opcode)
}

// selectMOV picks MOV's encoding from its operand shapes: MOV has more
// distinct forms than any other mnemonic (register, immediate,
// segment, the implicit-SP forms, and every load/store addressing
// mode), so it gets its own dispatcher rather than the generic
// family-shape match used for everything else.
func selectMOV(ops []operand) (*isa.Info, error) {
	if len(ops) != 2 {
		return nil, fmt.Errorf("MOV requires two operands")
	}
	dst, src := ops[0], ops[1]
	switch {
	case dst.kind == kindReg && src.kind == kindReg:
		return rowFor(isa.OpMOVrr)
	case dst.kind == kindReg && src.kind == kindImm:
		return rowFor(isa.OpMOVri)
	case dst.kind == kindReg && src.kind == kindSeg:
		return rowFor(isa.OpMOVrSeg)
	case dst.kind == kindSeg && src.kind == kindReg:
		return rowFor(isa.OpMOVSegr)
	case dst.kind == kindReg && src.kind == kindSP:
		return rowFor(isa.OpMOVrSP)
	case dst.kind == kindSP && src.kind == kindReg:
		return rowFor(isa.OpMOVSPr)
	case dst.kind == kindReg && src.kind == kindMem && src.hasBase && src.baseIsSP:
		return rowFor(isa.OpMOVrSPoff)
	case dst.kind == kindMem && dst.hasBase && dst.baseIsSP && src.kind == kindReg:
		return rowFor(isa.OpMOVSPoffr)
	case dst.kind == kindReg && src.kind == kindMem && src.hasBase:
		return rowFor(isa.OpMOVrIndexed)
	case dst.kind == kindMem && dst.hasBase && src.kind == kindReg:
		return rowFor(isa.OpMOVIndexedr)
	case dst.kind == kindReg && src.kind == kindMem:
		return rowFor(isa.OpMOVrDirect)
	case dst.kind == kindMem && src.kind == kindReg:
		return rowFor(isa.OpMOVDirectr)
	default:
		return nil, fmt.Errorf("MOV: no encoding matches operand shapes")
	}
}

// isStringMnemonic reports whether name is the operand of a REP
// family prefix: a bare string-primitive mnemonic, not a register or
// immediate operand.
func isStringMnemonic(name string) bool {
	rows := isa.ByMnemonic[strings.ToUpper(name)]
	if len(rows) != 1 {
		return false
	}
	return isa.IsStringPrimitive(rows[0].Opcode)
}

func familyMatches(r *isa.Info, ops []operand) bool {
	switch r.Family {
	case isa.Implicit:
		return len(ops) == 0
	case isa.Interrupt:
		return len(ops) == 1 && ops[0].kind == kindImm
	case isa.RegReg:
		return len(ops) == 2 && ops[0].kind == kindReg && ops[1].kind == kindReg
	case isa.RegImm:
		if len(ops) != 2 {
			return false
		}
		if r.Opcode == isa.OpADDSPi || r.Opcode == isa.OpSUBSPi {
			return ops[0].kind == kindSP && ops[1].kind == kindImm
		}
		return ops[0].kind == kindReg && ops[1].kind == kindImm
	case isa.RegOnly:
		return len(ops) == 1 && ops[0].kind == kindReg
	case isa.SegPushPop:
		return len(ops) == 1 && ops[0].kind == kindSeg
	case isa.LoadStoreIndexed:
		return len(ops) == 2 && ops[0].kind == kindReg && ops[1].kind == kindMem && ops[1].hasBase && !ops[1].baseIsSP
	case isa.IndexedSP:
		return len(ops) == 2 && ops[0].kind == kindReg && ops[1].kind == kindMem && ops[1].hasBase && ops[1].baseIsSP
	case isa.Enter:
		return len(ops) == 2 && ops[0].kind == kindImm && ops[1].kind == kindImm
	case isa.ShiftRotate:
		return len(ops) == 2 && ops[0].kind == kindReg && (ops[1].kind == kindImm || ops[1].kind == kindCL)
	case isa.AbsBranch16:
		return len(ops) == 1 && ops[0].kind == kindImm
	case isa.RetImm:
		return len(ops) == 1 && ops[0].kind == kindImm
	case isa.RelBranch8:
		return len(ops) == 1 && ops[0].kind == kindImm
	case isa.FarJumpCall:
		return len(ops) == 1 && ops[0].kind == kindFar
	case isa.IO:
		if len(ops) != 2 {
			return false
		}
		// IN reg, port -- OUT port, reg.
		return ops[0].kind == kindReg && ops[1].kind == kindImm ||
			ops[0].kind == kindImm && ops[1].kind == kindReg
	default:
		return false
	}
}

func selectInfo(mnemonic string, ops []operand) (*isa.Info, error) {
	if mnemonic == "MOV" {
		return selectMOV(ops)
	}
	rows := isa.ByMnemonic[mnemonic]
	if len(rows) == 0 {
		return nil, fmt.Errorf("unknown mnemonic %s", mnemonic)
	}
	for _, r := range rows {
		if familyMatches(r, ops) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%s: no encoding matches operand shape", mnemonic)
}

// instructionSize returns an instruction's byte length from its
// mnemonic and operand syntax alone -- no label needs to be resolved
// to know how many bytes a line occupies, which is what lets Pass 1
// compute every address in a single forward walk.
func instructionSize(ln sourceLine) (int, error) {
	if ln.mnemonic == "REP" || ln.mnemonic == "REPZ" || ln.mnemonic == "REPNZ" {
		sub := strings.TrimSpace(ln.operands)
		if !isStringMnemonic(sub) {
			return 0, fmt.Errorf("%s: %q is not a string primitive", ln.mnemonic, sub)
		}
		rows := isa.ByMnemonic[ln.mnemonic]
		return rows[0].Size(), nil
	}
	ops, err := parseOperands(ln.operands)
	if err != nil {
		return 0, err
	}
	info, err := selectInfo(ln.mnemonic, ops)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// encodeInstruction emits one instruction's bytes, resolving any
// symbol operand against the completed symbol table. pc is the
// instruction's own address, needed for RelBranch8 displacements;
// segBase is the SEGMENT directive's base, subtracted when a label
// resolves into a 16-bit branch target so the emitted offset is
// CS-relative.
func encodeInstruction(ln sourceLine, symbols map[string]int32, pc, segBase int64) ([]byte, error) {
	if ln.mnemonic == "REP" || ln.mnemonic == "REPZ" || ln.mnemonic == "REPNZ" {
		sub := strings.ToUpper(strings.TrimSpace(ln.operands))
		subRows := isa.ByMnemonic[sub]
		if len(subRows) == 0 || !isa.IsStringPrimitive(subRows[0].Opcode) {
			return nil, fmt.Errorf("%s: %q is not a string primitive", ln.mnemonic, sub)
		}
		prefixRows := isa.ByMnemonic[ln.mnemonic]
		return []byte{prefixRows[0].Opcode, subRows[0].Opcode}, nil
	}

	ops, err := parseOperands(ln.operands)
	if err != nil {
		return nil, err
	}
	info, err := selectInfo(ln.mnemonic, ops)
	if err != nil {
		return nil, err
	}

	switch info.Family {
	case isa.Implicit:
		return []byte{info.Opcode}, nil

	case isa.Interrupt:
		v, err := ops[0].resolve(symbols)
		if err != nil {
			return nil, err
		}
		return []byte{info.Opcode, byte(v)}, nil

	case isa.RegReg:
		return []byte{info.Opcode, byte(ops[0].reg<<4 | ops[1].reg)}, nil

	case isa.RegImm:
		reg := ops[0].reg
		if ops[0].kind == kindSP {
			reg = 0
		}
		v, err := ops[1].resolve(symbols)
		if err != nil {
			return nil, err
		}
		return []byte{info.Opcode, byte(reg), byte(v), byte(uint16(v) >> 8)}, nil

	case isa.SegReg:
		if ops[0].kind == kindReg {
			return []byte{info.Opcode, byte(ops[1].seg<<4 | ops[0].reg)}, nil
		}
		return []byte{info.Opcode, byte(ops[0].seg<<4 | ops[1].reg)}, nil

	case isa.RegOnly:
		if ln.mnemonic == "MOV" {
			if ops[0].kind == kindReg {
				return []byte{info.Opcode, byte(ops[0].reg)}, nil
			}
			return []byte{info.Opcode, byte(ops[1].reg)}, nil
		}
		return []byte{info.Opcode, byte(ops[0].reg)}, nil

	case isa.SegPushPop:
		return []byte{info.Opcode, byte(ops[0].seg)}, nil

	case isa.LoadStoreDirect:
		reg, mem := ops[0], ops[1]
		if mem.kind == kindReg {
			reg, mem = ops[1], ops[0]
		}
		v, err := mem.resolve(symbols)
		if err != nil {
			return nil, err
		}
		return []byte{info.Opcode, byte(reg.reg), byte(v), byte(uint16(v) >> 8)}, nil

	case isa.LoadStoreIndexed:
		reg, mem := ops[0], ops[1]
		if mem.kind == kindReg {
			reg, mem = ops[1], ops[0]
		}
		off := mem.value
		return []byte{info.Opcode, byte(reg.reg<<4 | mem.baseReg), byte(off), byte(uint16(off) >> 8)}, nil

	case isa.IndexedSP:
		reg, mem := ops[0], ops[1]
		if mem.kind == kindReg {
			reg, mem = ops[1], ops[0]
		}
		off := mem.value
		return []byte{info.Opcode, byte(reg.reg), byte(off), byte(uint16(off) >> 8)}, nil

	case isa.Enter:
		size, err := ops[0].resolve(symbols)
		if err != nil {
			return nil, err
		}
		level, err := ops[1].resolve(symbols)
		if err != nil {
			return nil, err
		}
		return []byte{info.Opcode, byte(size), byte(uint16(size) >> 8), byte(level)}, nil

	case isa.ShiftRotate:
		count := int32(0)
		if ops[1].kind == kindImm {
			count, err = ops[1].resolve(symbols)
			if err != nil {
				return nil, err
			}
			if count < 0 || count > 15 {
				return nil, fmt.Errorf("shift count %d out of range 0..15", count)
			}
		}
		return []byte{info.Opcode, byte(ops[0].reg<<4 | (int(count) & 0xF))}, nil

	case isa.AbsBranch16:
		target, err := ops[0].resolve(symbols)
		if err != nil {
			return nil, err
		}
		if ops[0].label != "" {
			target -= int32(segBase)
		}
		return []byte{info.Opcode, byte(target), byte(uint16(target) >> 8)}, nil

	case isa.RetImm:
		n, err := ops[0].resolve(symbols)
		if err != nil {
			return nil, err
		}
		return []byte{info.Opcode, byte(n), byte(uint16(n) >> 8)}, nil

	case isa.RelBranch8:
		target, err := ops[0].resolve(symbols)
		if err != nil {
			return nil, err
		}
		rel := int64(target) - pc - 2
		if rel < -128 || rel > 127 {
			return nil, fmt.Errorf("branch target out of 8-bit range (%d)", rel)
		}
		return []byte{info.Opcode, byte(int8(rel))}, nil

	case isa.FarJumpCall:
		off, err := ops[0].resolve(symbols)
		if err != nil {
			return nil, err
		}
		seg, err := ops[0].resolveSeg(symbols)
		if err != nil {
			return nil, err
		}
		return []byte{info.Opcode, byte(off), byte(uint16(off) >> 8), byte(seg), byte(uint16(seg) >> 8)}, nil

	case isa.IO:
		reg, port := ops[0], ops[1]
		if reg.kind != kindReg {
			reg, port = ops[1], ops[0]
		}
		v, err := port.resolve(symbols)
		if err != nil {
			return nil, err
		}
		return []byte{info.Opcode, byte(reg.reg), byte(v), byte(uint16(v) >> 8)}, nil

	default:
		return nil, fmt.Errorf("%s: unsupported encoding family", ln.mnemonic)
	}
}
