package model_test

import (
	"encoding/json"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	model "github.com/subnetlab/paretoboard/internal/domain/model"
)

func TestParseCell(t *testing.T) {
	Convey("Given decorated and malformed table cells", t, func() {
		Convey("When parsing a plain number", func() {
			s := model.ParseCell(81.9)
			v, ok := s.Value()
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 81.9)
		})

		Convey("When parsing an asterisked string", func() {
			s := model.ParseCell("81.9*")
			v, ok := s.Value()
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 81.9)
		})

		Convey("When parsing a fraction-like string", func() {
			s := model.ParseCell("81.9/100")
			v, ok := s.Value()
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 81.9)
		})

		Convey("When parsing a string with both decorations", func() {
			s := model.ParseCell("64*/100")
			v, ok := s.Value()
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 64.0)
		})

		Convey("When parsing nil", func() {
			So(model.ParseCell(nil).Defined(), ShouldBeFalse)
		})

		Convey("When parsing garbage", func() {
			So(model.ParseCell("not-a-number").Defined(), ShouldBeFalse)
			So(model.ParseCell("").Defined(), ShouldBeFalse)
			So(model.ParseCell("*").Defined(), ShouldBeFalse)
			So(model.ParseCell("/100").Defined(), ShouldBeFalse)
			So(model.ParseCell(true).Defined(), ShouldBeFalse)
		})

		Convey("When parsing non-finite numbers", func() {
			So(model.ParseCell(math.NaN()).Defined(), ShouldBeFalse)
			So(model.ParseCell(math.Inf(1)).Defined(), ShouldBeFalse)
			So(model.ParseCell("Inf").Defined(), ShouldBeFalse)
		})
	})
}

func TestScoreComparisons(t *testing.T) {
	Convey("Given defined and absent scores", t, func() {
		a := model.Parsed(1.5)
		b := model.Parsed(2.5)
		none := model.Absent()

		Convey("Then defined scores compare by value", func() {
			So(a.Cmp(b), ShouldEqual, -1)
			So(b.Cmp(a), ShouldEqual, 1)
			So(a.Cmp(model.Parsed(1.5)), ShouldEqual, 0)
		})

		Convey("Then absent compares as negative infinity", func() {
			So(none.Rank(), ShouldEqual, math.Inf(-1))
			So(none.Cmp(a), ShouldEqual, -1)
			So(a.Cmp(none), ShouldEqual, 1)
			So(none.Cmp(model.Absent()), ShouldEqual, 0)
		})

		Convey("Then a defined negative value still beats absent", func() {
			So(model.Parsed(-1e9).Cmp(none), ShouldEqual, 1)
		})
	})
}

func TestScoreJSON(t *testing.T) {
	Convey("Given the Score JSON codec", t, func() {
		Convey("When marshaling absent", func() {
			out, err := json.Marshal(model.Absent())
			So(err, ShouldBeNil)
			So(string(out), ShouldEqual, "null")
		})

		Convey("When marshaling a value", func() {
			out, err := json.Marshal(model.Parsed(42.5))
			So(err, ShouldBeNil)
			So(string(out), ShouldEqual, "42.5")
		})

		Convey("When unmarshaling null, numbers and decorated strings", func() {
			var s model.Score
			So(json.Unmarshal([]byte(`null`), &s), ShouldBeNil)
			So(s.Defined(), ShouldBeFalse)

			So(json.Unmarshal([]byte(`7.25`), &s), ShouldBeNil)
			v, ok := s.Value()
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 7.25)

			So(json.Unmarshal([]byte(`"81.9*"`), &s), ShouldBeNil)
			v, ok = s.Value()
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 81.9)
		})
	})
}

func TestMinerID(t *testing.T) {
	Convey("Given miner identities", t, func() {
		uid := 42
		Convey("Then the key combines uid and model", func() {
			So(model.MinerID(&uid, "alpha"), ShouldEqual, "42:alpha")
		})
		Convey("Then a missing uid still yields a usable key", func() {
			So(model.MinerID(nil, "alpha"), ShouldEqual, "?:alpha")
		})
	})
}
