package core

import "bytes"

// ExtractFormField returns the raw value of the first name= occurrence in an
// application/x-www-form-urlencoded body.
//
// The search is a plain byte match on name: the byte before the match is not
// checked, so "id" also matches inside "userid=5". Only the first occurrence
// is considered; if it is not followed by '=' the field is not found. The
// value runs to the next '&', CR, LF or the end of the body and is returned
// as a sub-slice of body without percent-decoding.
func ExtractFormField(body []byte, name string) Value {
	if len(body) == 0 || name == "" {
		return NotFound
	}

	i := bytes.Index(body, []byte(name))
	if i < 0 {
		return NotFound
	}

	start := i + len(name)
	if start >= len(body) || body[start] != '=' {
		return NotFound
	}
	start++

	end := start
	for end < len(body) {
		c := body[end]
		if c == '&' || c == '\r' || c == '\n' {
			break
		}
		end++
	}

	return ValueOf(body[start:end:end])
}

type formFieldEvaluator struct {
	body Evaluator
	name string
}

// FormFieldEvaluator returns an Evaluator extracting name from the value of
// body, usually the request_body variable.
func FormFieldEvaluator(body Evaluator, name string) Evaluator {
	return &formFieldEvaluator{body: body, name: name}
}

func (e *formFieldEvaluator) Evaluate(r *Request) (Value, error) {
	if e.body == nil || e.name == "" {
		return NotFound, nil
	}

	body, err := e.body.Evaluate(r)
	if err != nil {
		return NotFound, err
	}
	if !body.Found {
		return NotFound, nil
	}

	return ExtractFormField(body.Data, e.name), nil
}
