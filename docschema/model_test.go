package docschema_test

import (
	"errors"
	"testing"

	"github.com/reoring/docskema/docschema"
)

func TestModifiersReturnCopies(t *testing.T) {
	base := docschema.String()
	req := base.Required().Min(2)
	if base.Constraints.Required || base.Constraints.Min != nil {
		t.Fatalf("modifiers must not mutate the receiver: %+v", base.Constraints)
	}
	if !req.Constraints.Required || *req.Constraints.Min != 2 {
		t.Fatalf("unexpected constraints: %+v", req.Constraints)
	}
	if got := req.Describe(); got != "String(required,min=2)" {
		t.Fatalf("describe: %q", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := docschema.New(
		docschema.F("location", docschema.Nested(
			docschema.F("tags", docschema.ArrayOf(docschema.String().Enum("a"))),
		)),
	)
	c := s.Clone()
	c.Fields[0].Node.Fields[0].Node.Elem.Constraints.Enum[0] = "changed"
	orig := s.Fields[0].Node.Fields[0].Node.Elem.Constraints.Enum[0]
	if orig != "a" {
		t.Fatalf("clone shares state with the original: %q", orig)
	}
}

func TestWalk_DepthFirstInOrder(t *testing.T) {
	s := docschema.New(
		docschema.F("word", docschema.String()),
		docschema.F("location", docschema.Nested(
			docschema.F("latitude", docschema.String()),
			docschema.F("customSch", docschema.Nested(
				docschema.F("someAtt", docschema.ArrayOf(docschema.String())),
			)),
		)),
		docschema.F("a/b", docschema.AnyArray()),
	)
	var paths []string
	if err := docschema.Walk(s, func(p string, n docschema.Node) error {
		paths = append(paths, p+"="+n.Describe())
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"/word=String",
		"/location=Schema",
		"/location/latitude=String",
		"/location/customSch=Schema",
		"/location/customSch/someAtt=[String]",
		"/location/customSch/someAtt/*=String",
		"/a~1b=[]",
	}
	if len(paths) != len(want) {
		t.Fatalf("got %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("step %d: got %q want %q", i, paths[i], want[i])
		}
	}
}

func TestWalk_StopsOnError(t *testing.T) {
	stop := errors.New("stop")
	s := docschema.New(docschema.F("a", docschema.String()), docschema.F("b", docschema.String()))
	n := 0
	err := docschema.Walk(s, func(string, docschema.Node) error {
		n++
		return stop
	})
	if !errors.Is(err, stop) || n != 1 {
		t.Fatalf("expected stop after first node, got err=%v n=%d", err, n)
	}
}
