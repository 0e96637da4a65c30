package sink_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/teamstats/internal/adapters/sink"
	"github.com/smartystreets/goconvey/convey"
)

type doc struct {
	Team string  `json:"team"`
	Note string  `json:"note"`
	TSS  float64 `json:"TSS"`
}

func TestJSONWriter(t *testing.T) {
	convey.Convey("Given a JSON writer and a nested output path", t, func() {
		ctx := context.Background()
		w := sink.NewJSONWriter()
		path := filepath.Join(t.TempDir(), "data", "overview.json")
		payload := []doc{{Team: "울산", Note: "a<b&c", TSS: 1.5}}

		convey.Convey("When writing a document", func() {
			res, err := w.Write(ctx, path, payload)

			convey.Convey("Then it is pretty-printed without escaping", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.Changed, convey.ShouldBeTrue)
				data, err := os.ReadFile(path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldEqual,
					"[\n  {\n    \"team\": \"울산\",\n    \"note\": \"a<b&c\",\n    \"TSS\": 1.5\n  }\n]\n")
				convey.So(res.Bytes, convey.ShouldEqual, len(data))
			})

			convey.Convey("Then no temporary file is left behind", func() {
				_, err := os.Stat(path + ".tmp")
				convey.So(os.IsNotExist(err), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When writing the same document twice", func() {
			_, err := w.Write(ctx, path, payload)
			convey.So(err, convey.ShouldBeNil)
			res, err := w.Write(ctx, path, payload)

			convey.Convey("Then the second write leaves the file untouched", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.Changed, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When writing an empty collection", func() {
			_, err := w.Write(ctx, path, []doc{})
			data, _ := os.ReadFile(path)

			convey.Convey("Then an empty array is written", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldEqual, "[]\n")
			})
		})

		convey.Convey("When the path is empty", func() {
			_, err := w.Write(ctx, "", payload)

			convey.Convey("Then it fails", func() {
				convey.So(errors.Is(err, sink.ErrWrite), convey.ShouldBeTrue)
			})
		})
	})
}
