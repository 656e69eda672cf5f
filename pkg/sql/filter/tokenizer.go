// pkg/sql/filter/tokenizer.go
package filter

import (
	"strings"

	"github.com/pkg/errors"

	"reldb/pkg/sql/lexer"
)

// ParsePostfix tokenizes the remainder of a WHERE clause and converts it to
// postfix form using the shunting-yard algorithm (§4.3). It stops at the
// statement terminator, end of input, or the JOIN keyword — WHERE and JOIN
// share a syntactic slot in SELECT, and JOIN must be handed back to the
// statement parser untouched.
func ParsePostfix(l *lexer.Lexer) ([]Token, error) {
	tokens, err := tokenize(l)
	if err != nil {
		return nil, err
	}
	return shunt(tokens)
}

// precedence follows §4.3 step 2: '(' = 0, OR = 1, AND = 2, comparisons = 3.
func precedence(k Kind) int {
	switch k {
	case LParen:
		return 0
	case Or:
		return 1
	case And:
		return 2
	default:
		return 3
	}
}

func tokenize(l *lexer.Lexer) ([]Token, error) {
	var tokens []Token
	l.SkipWhitespace()
	for !l.Eof() && !l.Test(';') {
		switch {
		case l.TakeIf('('):
			tokens = append(tokens, Token{Kind: LParen})
		case l.TakeIf(')'):
			tokens = append(tokens, Token{Kind: RParen})
		case l.TakeIf('='):
			tokens = append(tokens, Token{Kind: Eq})
		case l.TakeIf('<'):
			switch {
			case l.TakeIf('='):
				tokens = append(tokens, Token{Kind: Lte})
			case l.TakeIf('>'):
				tokens = append(tokens, Token{Kind: Neq})
			default:
				tokens = append(tokens, Token{Kind: Lt})
			}
		case l.TakeIf('>'):
			if l.TakeIf('=') {
				tokens = append(tokens, Token{Kind: Gte})
			} else {
				tokens = append(tokens, Token{Kind: Gt})
			}
		default:
			if l.TakeIf('\'') {
				s, err := l.ParseString()
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, Token{Kind: Const, Lexeme: s})
				break
			}
			mark, markCh := l.Mark()
			var sb strings.Builder
			for !l.Eof() && !l.TestSpace() && !l.TestAny("(),;=<>'") {
				sb.WriteByte(l.Take())
			}
			word := sb.String()
			if word == "" {
				return nil, l.Error("Invalid logic expression")
			}
			if strings.EqualFold(word, "JOIN") {
				l.Reset(mark, markCh)
				l.SkipWhitespace()
				return tokens, nil
			}
			tok, err := classifyWord(l, word)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		}
		l.SkipWhitespace()
	}
	return tokens, nil
}

func classifyWord(l *lexer.Lexer, word string) (Token, error) {
	if word[0] == '\'' {
		if len(word) < 2 || word[len(word)-1] != '\'' {
			return Token{}, l.Error("Expected ', found " + errorGlyph(l))
		}
		return Token{Kind: Const, Lexeme: word[1 : len(word)-1]}, nil
	}
	if isAlpha(word[0]) {
		switch strings.ToUpper(word) {
		case "OR":
			return Token{Kind: Or}, nil
		case "AND":
			return Token{Kind: And}, nil
		case "TRUE", "FALSE":
			return Token{Kind: Const, Lexeme: strings.ToUpper(word)}, nil
		default:
			return Token{Kind: Var, Lexeme: word}, nil
		}
	}
	return Token{Kind: Const, Lexeme: word}, nil
}

func errorGlyph(l *lexer.Lexer) string {
	if l.Eof() {
		return "EOF"
	}
	return "end of word"
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// shunt converts infix tokens to postfix (§4.3 step 2), left-associative,
// failing on mismatched parentheses.
func shunt(tokens []Token) ([]Token, error) {
	postfix := make([]Token, 0, len(tokens))
	var ops []Token
	for _, tok := range tokens {
		switch tok.Kind {
		case Var, Const:
			postfix = append(postfix, tok)
		case LParen:
			ops = append(ops, tok)
		case RParen:
			found := false
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if top.Kind == LParen {
					found = true
					break
				}
				postfix = append(postfix, top)
			}
			if !found {
				return nil, errors.New("Invalid logic expression")
			}
		default:
			for len(ops) > 0 && precedence(ops[len(ops)-1].Kind) >= precedence(tok.Kind) {
				postfix = append(postfix, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, tok)
		}
	}
	for len(ops) > 0 {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top.Kind == LParen {
			return nil, errors.New("Invalid logic expression")
		}
		postfix = append(postfix, top)
	}
	return postfix, nil
}
