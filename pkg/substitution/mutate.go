package substitution

type mutateConfig struct {
	skipSatisfied bool
}

// Option configures Mutate.
type Option func(*mutateConfig)

// SkipSatisfied makes Mutate accept a substitution whose residue after is
// already present at its position, leaving the sequence unchanged for that
// step instead of checking the residue before. Applying the same list twice
// then succeeds.
func SkipSatisfied() Option {
	return func(c *mutateConfig) { c.skipSatisfied = true }
}

// Mutate applies substitutions to sequence in order and returns the result.
// Each step sees the output of the previous one, so "Y3M" followed by "M3L"
// is valid. An empty or nil list returns sequence unchanged.
func Mutate(sequence string, substitutions []string, opts ...Option) (string, error) {
	if len(substitutions) == 0 {
		return sequence, nil
	}
	if sequence == "" {
		return "", &EmptySequenceError{Substitutions: append([]string(nil), substitutions...)}
	}
	var cfg mutateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	residues := []byte(sequence)
	for _, descriptor := range substitutions {
		sub, err := Parse(descriptor)
		if err != nil {
			return "", err
		}
		idx := sub.offset()
		if idx >= len(residues) {
			return "", &PositionError{Descriptor: descriptor, Position: sub.Position, Length: len(residues)}
		}
		current := residues[idx]
		if cfg.skipSatisfied && current == sub.To {
			continue
		}
		if current != sub.From {
			return "", &InconsistentError{Descriptor: descriptor, Position: sub.Position, Found: current}
		}
		residues[idx] = sub.To
	}
	return string(residues), nil
}

// Try runs Mutate and tags the result.
func Try(sequence string, substitutions []string, opts ...Option) Outcome {
	return NewOutcome(Mutate(sequence, substitutions, opts...))
}

// Mismatches returns the descriptors whose residue before differs from
// sequence, evaluated against sequence as given. Descriptors that fail to
// parse or fall outside the sequence are included.
func Mismatches(sequence string, substitutions []string) []string {
	var out []string
	for _, descriptor := range substitutions {
		sub, err := Parse(descriptor)
		if err != nil || sub.offset() >= len(sequence) || sequence[sub.offset()] != sub.From {
			out = append(out, descriptor)
		}
	}
	return out
}
