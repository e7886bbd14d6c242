package envname

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eugenenazirov/fautil/internal/layer"
	"github.com/eugenenazirov/fautil/internal/schema"
)

func testSchema() *schema.Schema {
	return schema.New(
		schema.Object("app",
			schema.String("title", "FastAPI Application"),
			schema.Bool("debug", false),
			schema.List("cors_origins", "*"),
			schema.String("log_level", "INFO"),
		),
		schema.Object("db",
			schema.String("url", "").Require(),
			schema.Int("pool_size", 5),
		).MarkOptional(),
		schema.Object("app_log",
			schema.String("level", "INFO"),
		),
		schema.String("environment", "dev"),
	)
}

func TestResolve(t *testing.T) {
	m := New(testSchema())

	testCases := []struct {
		name string
		path string
		form Form
	}{
		{"FAUTIL_APP_TITLE", "app.title", FormFlat},
		{"FAUTIL_APP__TITLE", "app.title", FormNested},
		{"fautil_app_title", "app.title", FormFlat},
		{"Fautil_Db__Pool_Size", "db.pool_size", FormNested},
		{"FAUTIL_DB_POOL_SIZE", "db.pool_size", FormFlat},
		{"FAUTIL_APP_CORS_ORIGINS", "app.cors_origins", FormFlat},
		{"FAUTIL_ENVIRONMENT", "environment", FormFlat},
		{"FAUTIL_APP_LOG_LEVEL", "app.log_level", FormFlat},
		{"FAUTIL_APP_LOG__LEVEL", "app_log.level", FormNested},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := m.Resolve(tc.name)
			if !ok {
				t.Fatalf("expected %s to resolve", tc.name)
			}
			if layer.JoinPath(got.Path) != tc.path || got.Form != tc.form {
				t.Fatalf("expected %s (%s), got %s (%s)", tc.path, tc.form, layer.JoinPath(got.Path), got.Form)
			}
		})
	}
}

func TestResolveIgnoresUnknownNames(t *testing.T) {
	m := New(testSchema())

	for _, name := range []string{
		"PATH",
		"FAUTIL_",
		"FAUTIL_APP",
		"FAUTIL_APP__",
		"FAUTIL_APP__UNKNOWN",
		"FAUTIL_APP_UNKNOWN",
		"FAUTIL_DB",
		"FAUTIL_APP__TITLE__EXTRA",
		"OTHER_APP_TITLE",
	} {
		if got, ok := m.Resolve(name); ok {
			t.Fatalf("expected %s to be ignored, resolved to %v", name, got.Path)
		}
	}
}

func TestWithPrefix(t *testing.T) {
	m := New(testSchema(), WithPrefix("MYAPP_"))
	if _, ok := m.Resolve("FAUTIL_APP_TITLE"); ok {
		t.Fatalf("expected default prefix to be ignored")
	}
	if got, ok := m.Resolve("MYAPP_APP_TITLE"); !ok || layer.JoinPath(got.Path) != "app.title" {
		t.Fatalf("expected custom prefix to resolve, got %v", got.Path)
	}
}

func TestNames(t *testing.T) {
	m := New(testSchema())

	if diff := cmp.Diff([]string{"FAUTIL_DB_POOL_SIZE", "FAUTIL_DB__POOL_SIZE"}, m.Names([]string{"db", "pool_size"})); diff != "" {
		t.Fatalf("unexpected names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"FAUTIL_ENVIRONMENT"}, m.Names([]string{"environment"})); diff != "" {
		t.Fatalf("unexpected names (-want +got):\n%s", diff)
	}
	if m.Names(nil) != nil {
		t.Fatalf("expected no names for empty path")
	}
}

func TestNestedNamesResolveBack(t *testing.T) {
	s := testSchema()
	m := New(s)
	for _, leaf := range s.Leaves() {
		names := m.Names(leaf.Path)
		got, ok := m.Resolve(names[len(names)-1])
		if !ok {
			t.Fatalf("expected %s to resolve", names[len(names)-1])
		}
		if diff := cmp.Diff(leaf.Path, got.Path); diff != "" {
			t.Fatalf("%s resolved to the wrong path (-want +got):\n%s", names[len(names)-1], diff)
		}
	}
}

func TestFlatNameCollisionPrefersShortestHead(t *testing.T) {
	m := New(testSchema())

	// app.log_level and app_log.level share the flat spelling.
	got, ok := m.Resolve(m.Names([]string{"app_log", "level"})[0])
	if !ok {
		t.Fatalf("expected flat name to resolve")
	}
	if layer.JoinPath(got.Path) != "app.log_level" {
		t.Fatalf("expected app.log_level, got %s", layer.JoinPath(got.Path))
	}
}

func TestLayerNestedFormWins(t *testing.T) {
	m := New(testSchema())

	got, matches := m.Layer(map[string]string{
		"FAUTIL_APP_TITLE":   "flat",
		"FAUTIL_APP__TITLE":  "nested",
		"FAUTIL_APP_DEBUG":   "YES",
		"FAUTIL_DB__URL":     "postgres://localhost/db",
		"FAUTIL_UNKNOWN_KEY": "ignored",
		"HOME":               "/root",
	})

	want := layer.Layer{
		"app": layer.Layer{"title": "nested", "debug": "YES"},
		"db":  layer.Layer{"url": "postgres://localhost/db"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected layer (-want +got):\n%s", diff)
	}

	var names []string
	for _, match := range matches {
		names = append(names, match.Name)
	}
	if diff := cmp.Diff([]string{"FAUTIL_APP_DEBUG", "FAUTIL_APP__TITLE", "FAUTIL_DB__URL"}, names); diff != "" {
		t.Fatalf("unexpected matches (-want +got):\n%s", diff)
	}
}

func TestLayerIsDeterministicForCaseVariants(t *testing.T) {
	m := New(testSchema())
	vars := map[string]string{
		"FAUTIL_APP_TITLE": "upper",
		"fautil_app_title": "lower",
	}
	for i := 0; i < 20; i++ {
		got, _ := m.Layer(vars)
		if title, _ := got.Get([]string{"app", "title"}); title != "lower" {
			t.Fatalf("expected lexically greatest name to win, got %v", title)
		}
	}
}

func TestParseEnviron(t *testing.T) {
	got := ParseEnviron([]string{"A=1", "B=x=y", "C=", "=bad", "NOEQ"})
	want := map[string]string{"A": "1", "B": "x=y", "C": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected environ (-want +got):\n%s", diff)
	}
}
