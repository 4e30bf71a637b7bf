package browser

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fastestraces/fastestraces/internal/domain"
)

type recorder struct {
	name string
	args []string
	err  error
}

func (r *recorder) start(name string, args ...string) error {
	r.name = name
	r.args = args
	return r.err
}

func TestOpen_PicksLauncherPerPlatform(t *testing.T) {
	cases := []struct {
		goos string
		want string
	}{
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
		{"darwin", "open"},
		{"windows", "rundll32"},
	}
	for _, tc := range cases {
		t.Run(tc.goos, func(t *testing.T) {
			rec := &recorder{}
			o := New(WithGOOS(tc.goos), WithStart(rec.start))

			if err := o.Open("/tmp/report.html"); err != nil {
				t.Fatalf("Open: %v", err)
			}
			if rec.name != tc.want {
				t.Fatalf("launcher: got %q, want %q", rec.name, tc.want)
			}
			last := rec.args[len(rec.args)-1]
			if !strings.HasPrefix(last, "file://") || !strings.HasSuffix(last, "report.html") {
				t.Fatalf("target: got %q", last)
			}
		})
	}
}

func TestOpen_RelativePathMadeAbsolute(t *testing.T) {
	rec := &recorder{}
	o := New(WithGOOS("linux"), WithStart(rec.start))

	if err := o.Open("report.html"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	abs, _ := filepath.Abs("report.html")
	if want := FileURL(abs); rec.args[0] != want {
		t.Fatalf("got %q, want %q", rec.args[0], want)
	}
}

func TestOpen_StartFailure(t *testing.T) {
	rec := &recorder{err: errors.New("not installed")}
	o := New(WithGOOS("linux"), WithStart(rec.start))

	err := o.Open("/tmp/report.html")
	if !domain.IsKind(err, domain.KindExecution) {
		t.Fatalf("expected execution error, got %v", err)
	}
	if !strings.Contains(err.Error(), "xdg-open") {
		t.Fatalf("error should name the launcher: %v", err)
	}
}

func TestFileURL(t *testing.T) {
	if got := FileURL("/tmp/a b.html"); got != "file:///tmp/a%20b.html" {
		t.Fatalf("got %q", got)
	}
}
