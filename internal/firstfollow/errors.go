package firstfollow

import "errors"

var errIllFormedPredicate = errors.New("ill-formed predicate: unknown or non-positive look-ahead depth")
