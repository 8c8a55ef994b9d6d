package header

import (
	"fmt"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipwire/internal/errorutil"
	"github.com/ghettovoice/sipwire/internal/grammar"
	"github.com/ghettovoice/sipwire/internal/lex"
	"github.com/ghettovoice/sipwire/internal/util"
)

// MIMEType holds media type information.
type MIMEType struct {
	Type    string
	Subtype string
	Params  Values
}

func (mt MIMEType) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	fmt.Fprint(sb, mt.Type, "/", mt.Subtype)

	if len(mt.Params) > 0 {
		kvs := make([][]string, 0, len(mt.Params))
		for k := range mt.Params {
			v, _ := mt.Params.Last(k)
			kvs = append(kvs, []string{util.LCase(k), v})
		}
		slices.SortFunc(kvs, util.CmpKVs)
		for _, kv := range kvs {
			fmt.Fprint(sb, ";", kv[0], "=", kv[1])
		}
	}

	return sb.String()
}

func (mt MIMEType) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, mt.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(mt.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			fmt.Fprint(f, mt.String())
			return
		}

		type hideMethods MIMEType
		type MIMEType hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), MIMEType(mt))
		return
	}
}

func (mt MIMEType) Equal(val any) bool {
	var other MIMEType
	switch v := val.(type) {
	case MIMEType:
		other = v
	case *MIMEType:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}

	return util.EqFold(mt.Type, other.Type) &&
		util.EqFold(mt.Subtype, other.Subtype) &&
		compareHdrParams(mt.Params, other.Params, map[string]bool{"charset": true})
}

func (mt MIMEType) IsValid() bool {
	return grammar.IsToken(mt.Type) &&
		grammar.IsToken(mt.Subtype) &&
		validateHdrParams(mt.Params)
}

func (mt MIMEType) IsZero() bool {
	return mt.Type == "" &&
		mt.Subtype == "" &&
		len(mt.Params) == 0
}

func (mt MIMEType) Clone() MIMEType {
	mt.Params = mt.Params.Clone()
	return mt
}

func (mt MIMEType) MarshalText() ([]byte, error) {
	return []byte(mt.String()), nil
}

func (mt *MIMEType) UnmarshalText(data []byte) error {
	*mt = MIMEType{}
	if len(data) == 0 {
		return nil
	}
	l := lex.New([]rune(string(data)))
	v, _, err := parseMIMEType(l, false)
	if err == nil && !l.Done() {
		err = errorutil.NewGrammarError(l.Pos(), "unexpected trailing characters")
	}
	if err != nil {
		return errtrace.Wrap(err)
	}
	*mt = v
	return nil
}

// parseMIMEType parses `m-type SLASH m-subtype *(SEMI m-parameter)`.
// With acceptRange set, the "q" parameter and everything after it are returned separately
// as accept parameters (RFC 2616 Section 14.1).
func parseMIMEType(l *lex.Lexer, acceptRange bool) (mt MIMEType, accParams Values, err error) {
	if mt.Type, err = expectToken(l, "media type"); err != nil {
		return mt, nil, errtrace.Wrap(err)
	}
	l.LWS()
	if err = l.Match('/'); err != nil {
		return mt, nil, errtrace.Wrap(err)
	}
	l.LWS()
	if mt.Subtype, err = expectToken(l, "media subtype"); err != nil {
		return mt, nil, errtrace.Wrap(err)
	}
	mt.Type, mt.Subtype = lex.InternString(mt.Type), lex.InternString(mt.Subtype)

	for {
		name, value, ok, err := parseParam(l)
		if err != nil {
			return mt, nil, errtrace.Wrap(err)
		}
		if !ok {
			break
		}
		if accParams != nil || acceptRange && util.EqFold(name, "q") {
			if accParams == nil {
				accParams = make(Values)
			}
			accParams.Append(name, value)
			continue
		}
		if mt.Params == nil {
			mt.Params = make(Values)
		}
		mt.Params.Append(name, value)
	}
	return mt, accParams, nil
}
