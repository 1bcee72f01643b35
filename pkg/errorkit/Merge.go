package errorkit

import (
	"errors"
	"slices"
)

// Merge combines the non nil errors into one.
// It returns nil when there is none, and the error itself when there is exactly one.
// Otherwise the messages are listed line by line, and errors.Is and errors.As reach every member.
func Merge(errs ...error) error {
	errs = slices.DeleteFunc(slices.Clone(errs), func(err error) bool { return err == nil })
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

// Finish merges the error of a deferred cleanup into the returned error.
//
//	defer errorkit.Finish(&err, rows.Close)
func Finish(returnErr *error, cleanup func() error) {
	*returnErr = Merge(*returnErr, cleanup())
}
