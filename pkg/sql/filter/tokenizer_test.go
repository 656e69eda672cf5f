// pkg/sql/filter/tokenizer_test.go
package filter

import (
	"reflect"
	"testing"

	"reldb/pkg/sql/lexer"
)

func parse(t *testing.T, text string) []Token {
	t.Helper()
	l := lexer.New(text)
	toks, err := ParsePostfix(l)
	if err != nil {
		t.Fatalf("ParsePostfix(%q) error: %v", text, err)
	}
	return toks
}

func TestSimpleComparison(t *testing.T) {
	got := parse(t, "salary <> 80000")
	want := []Token{{Kind: Var, Lexeme: "salary"}, {Kind: Const, Lexeme: "80000"}, {Kind: Neq}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

// Scenario 3 (§8): AND binds tighter than OR.
func TestAndBeforeOr(t *testing.T) {
	got := parse(t, "salary <> 80000 AND sex='M' OR sex='F'")
	want := []Token{
		{Kind: Var, Lexeme: "salary"}, {Kind: Const, Lexeme: "80000"}, {Kind: Neq},
		{Kind: Var, Lexeme: "sex"}, {Kind: Const, Lexeme: "M"}, {Kind: Eq}, {Kind: And},
		{Kind: Var, Lexeme: "sex"}, {Kind: Const, Lexeme: "F"}, {Kind: Eq}, {Kind: Or},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParentheses(t *testing.T) {
	got := parse(t, "(a = 1 OR b = 2) AND c = 3")
	want := []Token{
		{Kind: Var, Lexeme: "a"}, {Kind: Const, Lexeme: "1"}, {Kind: Eq},
		{Kind: Var, Lexeme: "b"}, {Kind: Const, Lexeme: "2"}, {Kind: Eq}, {Kind: Or},
		{Kind: Var, Lexeme: "c"}, {Kind: Const, Lexeme: "3"}, {Kind: Eq}, {Kind: And},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestMismatchedParens(t *testing.T) {
	l := lexer.New("(a = 1")
	if _, err := ParsePostfix(l); err == nil || err.Error() != "Invalid logic expression" {
		t.Fatalf("expected 'Invalid logic expression', got %v", err)
	}
}

func TestStopsBeforeJoin(t *testing.T) {
	l := lexer.New("a = 1 JOIN branch ON a = b")
	toks, err := ParsePostfix(l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Token{{Kind: Var, Lexeme: "a"}, {Kind: Const, Lexeme: "1"}, {Kind: Eq}}
	if !reflect.DeepEqual(toks, want) {
		t.Errorf("got %+v, want %+v", toks, want)
	}
	if !l.TestAny("Jj") {
		t.Error("expected lexer to be positioned at JOIN")
	}
}

func TestTrueFalseConst(t *testing.T) {
	got := parse(t, "active = TRUE")
	want := []Token{{Kind: Var, Lexeme: "active"}, {Kind: Const, Lexeme: "TRUE"}, {Kind: Eq}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
