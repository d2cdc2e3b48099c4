package parse

import "errors"

// ErrEnvelopeMismatch is returned by the strict decoders when a provider body
// does not have the expected shape. The wrapping error names the provider and
// the JSON path that failed.
//
// Example:
//
//	if errors.Is(err, parse.ErrEnvelopeMismatch) {
//	    // the provider changed its response format
//	}
var ErrEnvelopeMismatch = errors.New("parse: provider envelope mismatch")

// ErrUnsupportedProvider is returned for a provider tag outside the known set.
var ErrUnsupportedProvider = errors.New("parse: unsupported provider")

// ErrUnparseable is returned by [As] when neither the extracted candidate nor
// its repaired form is valid JSON.
var ErrUnparseable = errors.New("parse: response is not valid JSON after repair")
