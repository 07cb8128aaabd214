package shttp

import (
	"context"
	"io"
	"io/fs"
	"mime"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrFileNotFound is returned by a FileSource for missing files.
var ErrFileNotFound = errors.New("file not found")

// staticChunkSize is the size of the body chunks a static file is written in.
const staticChunkSize = 32 * 1024

// File is an opened static file.
type File struct {
	Body          io.ReadCloser
	Size          int64
	ContentType   string
	ContentLength bool
}

// FileSource opens static files by their slash separated relative path.
type FileSource interface {
	Open(ctx context.Context, name string) (*File, error)
}

type dirSource struct{ fsys fs.FS }

// DirSource serves files from fsys.
func DirSource(fsys fs.FS) FileSource { return dirSource{fsys} }

func (s dirSource) Open(_ context.Context, name string) (*File, error) {
	f, err := s.fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Mark(err, ErrFileNotFound)
	} else if err != nil {
		return nil, errors.Wrapf(err, "open %q", name)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat %q", name)
	}
	if st.IsDir() {
		f.Close()
		return nil, errors.Wrapf(ErrFileNotFound, "%q is a directory", name)
	}

	return &File{Body: f, Size: st.Size(), ContentLength: true}, nil
}

// Static registers a GET route that serves the path below the pattern from src. Unknown files
// produce no output so the request continues to the next route when chaining allows it.
func (m *ServeMux) Static(pattern string, src FileSource, opts ...RouteOption) {
	m.Get(pattern, func(ctx context.Context, res *Response, req *Request) error {
		return ServeFile(ctx, res, src, req.RelativePath())
	}, opts...)
}

// ServeFile writes the named file from src to res. The content-type is derived from the file
// extension unless the source provides one.
func ServeFile(ctx context.Context, res *Response, src FileSource, name string) error {
	name = strings.Trim(name, "/")
	if name == "" || !fs.ValidPath(name) {
		return nil
	}

	f, err := src.Open(ctx, name)
	if errors.Is(err, ErrFileNotFound) {
		return nil
	} else if err != nil {
		return err
	}
	defer f.Body.Close()

	ctype := f.ContentType
	if ctype == "" {
		ctype = mime.TypeByExtension(strings.ToLower(path.Ext(name)))
	}
	if ctype != "" {
		if err := res.Header().ContentType(ctype, false); err != nil {
			return err
		}
	}
	if f.ContentLength {
		if err := res.Header().ContentLength(int(f.Size), false); err != nil {
			return err
		}
	}

	if err := res.SendHeaders(); err != nil {
		return err
	}

	// at most one chunk is in flight while the next one is read
	var last *Pending
	buf := make([]byte, staticChunkSize)
	for {
		n, rerr := f.Body.Read(buf)
		if n > 0 {
			if last != nil {
				if err := last.Wait(ctx); err != nil {
					if ctx.Err() != nil {
						res.abort()
					}
					return errors.Wrapf(err, "write %q", name)
				}
			}
			last = res.Body(buf[:n])
		}
		if errors.Is(rerr, io.EOF) {
			break
		} else if rerr != nil {
			return errors.Wrapf(rerr, "read %q", name)
		}
	}

	return res.deliver(ctx)
}
