package memory

import (
	"reflect"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"golang.org/x/exp/slog"
)

// Config is a comparable description of a memory policy. Two policies built from the same heap
// policy, reference counting policy and hint have equal Configs, however they were constructed.
type Config struct {
	Heap                     reflect.Type
	Refcount                 reflect.Type
	PreferFewerBiggerObjects bool
}

// Describe returns the Config of the provided memory policy
func Describe(p MemoryPolicy) Config {
	return Config{
		Heap:                     reflect.TypeOf(p.HeapPolicy()),
		Refcount:                 reflect.TypeOf(p.RefcountPolicy()),
		PreferFewerBiggerObjects: p.PreferFewerBiggerObjects(),
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// WriteJSON populates a json object with the fields of the Config
func (c Config) WriteJSON(json *jwriter.ObjectState) {
	json.Name("Heap").String(typeName(c.Heap))
	json.Name("Refcount").String(typeName(c.Refcount))
	json.Name("PreferFewerBiggerObjects").Bool(c.PreferFewerBiggerObjects)
}

// JSON renders the Config as a json object
func (c Config) JSON() []byte {
	writer := jwriter.NewWriter()
	obj := writer.Object()
	c.WriteJSON(&obj)
	obj.End()
	return writer.Bytes()
}

func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("heap", typeName(c.Heap)),
		slog.String("refcount", typeName(c.Refcount)),
		slog.Bool("preferFewerBiggerObjects", c.PreferFewerBiggerObjects),
	)
}
