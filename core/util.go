package core

import (
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/kat-co/vala"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Getwd tries to find the project root (the directory holding go.mod).
// go-test changes the working directory to the test package being run during tests,
// so we walk up until we find it.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}

// Date truncates t to midnight in its own location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Clock returns the current time. Swap it in tests.
type Clock func() time.Time

// Today returns the current calendar day in loc.
func (c Clock) Today(loc *time.Location) time.Time {
	now := time.Now
	if c != nil {
		now = c
	}
	if loc == nil {
		loc = time.UTC
	}
	return Date(now().In(loc))
}

// IsNotNil is vala.IsNotNil for constructor collaborators.
// Values of a kind that cannot be nil (struct values such as a no-op logger) always pass.
func IsNotNil(obtained interface{}, paramName string) vala.Checker {
	if obtained != nil {
		switch reflect.ValueOf(obtained).Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		default:
			return func() (bool, string) { return true, "" }
		}
	}
	return vala.IsNotNil(obtained, paramName)
}
