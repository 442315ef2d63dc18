package respect

import (
	"errors"
)

// ExpectText compares actual with a text resource (extension "txt" by
// default). See ExpectJSON for the outcome rules.
func (s *Session) ExpectText(actual string, opts ...Option) error {
	r := s.newRequest("txt", opts)
	path := s.resolve(r)

	data, notFound, err := s.readBaseline(path)
	if err != nil {
		return err
	}
	if !notFound && string(data) == actual {
		return s.removeFile(s.actualPath(r))
	}

	m := &MismatchError{Path: path, NotFound: notFound, Actual: actual}
	if !notFound {
		m.Expected = string(data)
		m.Diff = textDiff(string(data), actual)
	}
	return s.settle(r, m, []byte(actual))
}

// ExpectJSON compares actual with a structured resource decoded by the
// session codec. Both sides are rounded to the resolved precision before the
// comparison.
//
// Equal values pass and remove a stale actual file. Otherwise, in accept
// mode the unrounded actual value is written as the baseline and nil is
// returned; outside accept mode a *MismatchError is returned, with NotFound
// set when there was no baseline.
func (s *Session) ExpectJSON(actual any, opts ...Option) error {
	r := s.newRequest(s.codec().Ext(), opts)
	path := s.resolve(r)

	actualPlain, err := ToPlain(actual)
	if err != nil {
		return err
	}

	data, notFound, err := s.readBaseline(path)
	if err != nil {
		return err
	}

	m := &MismatchError{Path: path, NotFound: notFound, Actual: actualPlain}
	if !notFound {
		expectedPlain, err := s.codec().Decode(data)
		if err != nil {
			return err
		}

		exp, act := expectedPlain, actualPlain
		if d := s.digits(r); d != nil {
			if exp, err = RoundFloats(exp, *d); err != nil {
				return err
			}
			if act, err = RoundFloats(act, *d); err != nil {
				return err
			}
		}
		if Equal(exp, act) {
			return s.removeFile(s.actualPath(r))
		}
		m.Expected, m.Actual = exp, act
		m.Diff = dataDiff(exp, act)
	}

	encoded, err := s.codec().Encode(actualPlain)
	if err != nil {
		return err
	}
	return s.settle(r, m, encoded)
}

// ExpectModel is ExpectJSON for typed values; the model is compared in its
// plain-data form (protojson for proto messages, encoding/json otherwise).
func (s *Session) ExpectModel(model any, opts ...Option) error {
	return s.ExpectJSON(model, opts...)
}

func (s *Session) readBaseline(path string) (data []byte, notFound bool, err error) {
	data, err = s.readFile(path)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nil, true, nil
	}
	return data, false, err
}

// settle finishes a failed comparison: write the baseline in accept mode,
// otherwise record the actual value and return the mismatch.
func (s *Session) settle(r request, m *MismatchError, encoded []byte) error {
	if s.accept {
		if err := s.writeFile(m.Path, encoded); err != nil {
			return err
		}
		if m.NotFound {
			s.logf("respect: created baseline %s", m.Path)
		} else {
			s.logf("respect: updated baseline %s", m.Path)
		}
		return s.removeFile(s.actualPath(r))
	}

	if s.WriteActual {
		actualPath := s.actualPath(r)
		if err := s.writeFile(actualPath, encoded); err != nil {
			return err
		}
		m.ActualPath = actualPath
	}
	return m
}

func (s *Session) logf(format string, args ...any) {
	if s.Log != nil {
		s.Log.Logf(format, args...)
	}
}
