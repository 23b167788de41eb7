package batch

// FileResult is the outcome of processing one source image.
type FileResult struct {
	Source string // source file name
	Output string // output file name, empty on failure
	Err    error
}

// OK reports whether the file was written.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// DirResult is the outcome of processing one code directory.
type DirResult struct {
	Code      string
	ProductNo string
	Unmapped  bool  // no product number; nothing was done
	Err       error // directory could not be prepared or listed
	Files     []FileResult
}

// Written returns the number of files written.
func (d DirResult) Written() int {
	n := 0
	for _, f := range d.Files {
		if f.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of files that failed.
func (d DirResult) Failed() int {
	return len(d.Files) - d.Written()
}

// Summary aggregates a whole run.
type Summary struct {
	Dirs         int // code directories found
	UnmappedDirs int
	FailedDirs   int
	Written      int
	Failed       int
	Results      []DirResult
}

func (s *Summary) add(d DirResult) {
	s.Dirs++
	switch {
	case d.Unmapped:
		s.UnmappedDirs++
	case d.Err != nil:
		s.FailedDirs++
	}
	s.Written += d.Written()
	s.Failed += d.Failed()
	s.Results = append(s.Results, d)
}
