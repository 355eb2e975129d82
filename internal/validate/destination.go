package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// Code classifies a validation outcome. Non-zero codes double as process
// exit codes.
type Code int

const (
	CodeOK Code = iota
	CodeMissingArgument
	CodeNamePolicy
	CodeMissingParent
	CodeConflict
)

// MaxNameLength is the longest directory name accepted, in characters.
const MaxNameLength = 255

// forbiddenChars are reserved on Windows; "/" is also reserved on Unix.
const forbiddenChars = `<>:"/\|?*`

// AllowedEntries may already exist in the destination directory.
var AllowedEntries = []string{".DS_Store", ".git", ".idea", "Thumbs.db"}

// Name policy violations, reported together.
const (
	IssueSpecialChars   = `name cannot contain special characters (<>:"/\|?*)`
	IssueNonPrintable   = "name cannot contain non-printable characters"
	IssueTooLong        = "name cannot contain more than 255 characters"
	IssueSurroundSpaces = "name cannot contain leading or trailing spaces"
)

// Result describes a checked destination.
type Result struct {
	Code     Code
	AppPath  string
	AppName  string
	BasePath string
	// Exists is set when AppPath is already present.
	Exists bool
	// Issues lists every name policy violation.
	Issues []string
	// Conflicts lists the existing entries that would clash with the template.
	Conflicts []string
}

// OK reports whether the destination can be used.
func (r *Result) OK() bool {
	return r.Code == CodeOK
}

// Destination checks dest without modifying the file system. The error
// return is for unexpected I/O failures only; policy failures are reported
// through Result.Code.
func Destination(dest string) (*Result, error) {
	if dest == "" {
		return &Result{Code: CodeMissingArgument}, nil
	}

	appPath, err := filepath.Abs(dest)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dest, err)
	}
	r := &Result{
		AppPath:  appPath,
		AppName:  filepath.Base(appPath),
		BasePath: filepath.Dir(appPath),
	}

	if r.Issues = CheckName(r.AppName); len(r.Issues) > 0 {
		r.Code = CodeNamePolicy
		return r, nil
	}

	if info, err := os.Stat(r.BasePath); err != nil || !info.IsDir() {
		r.Code = CodeMissingParent
		return r, nil
	}

	info, err := os.Stat(appPath)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", appPath, err)
	}
	r.Exists = true
	if !info.IsDir() {
		r.Code = CodeConflict
		r.Conflicts = []string{r.AppName}
		return r, nil
	}

	conflicts, err := Conflicts(appPath)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		r.Code = CodeConflict
		r.Conflicts = conflicts
	}
	return r, nil
}

// CheckName returns every naming rule that name breaks.
func CheckName(name string) []string {
	var issues []string
	if strings.ContainsAny(name, forbiddenChars) {
		issues = append(issues, IssueSpecialChars)
	}
	if strings.ContainsFunc(name, func(r rune) bool { return r <= 0x1F }) {
		issues = append(issues, IssueNonPrintable)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		issues = append(issues, IssueTooLong)
	}
	if name != strings.TrimSpace(name) {
		issues = append(issues, IssueSurroundSpaces)
	}
	return issues
}

// Conflicts lists the entries of dir outside AllowedEntries, sorted.
func Conflicts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var conflicts []string
	for _, e := range entries {
		if !isAllowed(e.Name()) {
			conflicts = append(conflicts, e.Name())
		}
	}
	sort.Strings(conflicts)
	return conflicts, nil
}

func isAllowed(name string) bool {
	for _, allowed := range AllowedEntries {
		if name == allowed {
			return true
		}
	}
	return false
}
