package report_test

import (
	"encoding/csv"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	dominance "github.com/subnetlab/paretoboard/internal/domain/dominance"
	model "github.com/subnetlab/paretoboard/internal/domain/model"
	report "github.com/subnetlab/paretoboard/internal/domain/report"
)

func winner(mask, size int, envs []string, name string, pts, weight, sum float64, edges int) dominance.Winner {
	uid := 1 // identity keys off (uid, model); a shared uid keeps same-name winners identical
	return dominance.Winner{
		Mask:    mask,
		Size:    size,
		EnvList: envs,
		Miner: model.Miner{
			ID:     model.MinerID(&uid, name),
			UID:    &uid,
			Model:  name,
			Pts:    model.Parsed(pts),
			Weight: model.Parsed(weight),
		},
		Sum:     model.Parsed(sum),
		Edges:   edges,
		Decided: dominance.TieBreakPareto,
	}
}

func TestParseMetric(t *testing.T) {
	Convey("Given metric names", t, func() {
		Convey("Then known names parse", func() {
			for _, name := range []string{"pts", "weight", "sum"} {
				m, err := report.ParseMetric(name)
				So(err, ShouldBeNil)
				So(string(m), ShouldEqual, name)
			}
		})
		Convey("Then the empty string selects the default", func() {
			m, err := report.ParseMetric("")
			So(err, ShouldBeNil)
			So(m, ShouldEqual, report.MetricSum)
		})
		Convey("Then unknown names fail with the sentinel", func() {
			_, err := report.ParseMetric("latency")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unknown metric")
		})
	})
}

func TestBuildSortAndTruncate(t *testing.T) {
	Convey("Given winners across subset sizes", t, func() {
		winners := []dominance.Winner{
			winner(0b001, 1, []string{"SAT"}, "beta", 5, 1, 50, 0),
			winner(0b010, 1, []string{"ABD"}, "alpha", 9, 1, 90, 1),
			winner(0b011, 2, []string{"SAT", "ABD"}, "alpha", 9, 1, 140, 2),
			winner(0b101, 2, []string{"SAT", "DED"}, "gamma", 3, 1, 60, 0),
			winner(0b110, 2, []string{"ABD", "DED"}, "Beta", 5, 1, 60, 1),
			winner(0b111, 3, []string{"SAT", "ABD", "DED"}, "alpha", 9, 1, 200, 2),
		}

		Convey("When building without truncation", func() {
			s := report.Build(winners, report.MetricSum, 100)

			Convey("Then order is size asc, value desc, label asc", func() {
				var got []string
				for _, r := range s.Records {
					got = append(got, r.WinnerLabel)
				}
				// size 1: 90 (alpha), 50 (beta); size 2: 140, then 60/60 by
				// label (Beta before gamma, case-insensitively); size 3 last.
				So(got, ShouldResemble, []string{"alpha", "beta", "alpha", "Beta", "gamma", "alpha"})
				So(s.Records[0].Mask, ShouldEqual, 0b010)
			})

			Convey("Then no other buckets are emitted", func() {
				So(len(s.Other), ShouldEqual, 0)
			})

			Convey("Then each distinct winner has one stable color", func() {
				So(s.Colors[s.Records[0].WinnerID], ShouldNotBeEmpty)
				alpha := s.Records[0].Color
				So(s.Records[2].Color, ShouldEqual, alpha)
				So(s.Records[5].Color, ShouldEqual, alpha)
				So(s.Records[1].Color, ShouldNotEqual, alpha)
			})
		})

		Convey("When truncating to the top three", func() {
			full := report.Build(winners, report.MetricSum, 100)
			s := report.Build(winners, report.MetricSum, 3)

			Convey("Then three records survive", func() {
				So(len(s.Records), ShouldEqual, 3)
			})

			Convey("Then the overflow folds into per-size buckets", func() {
				So(len(s.Other), ShouldEqual, 2)
				So(s.Other[0].Size, ShouldEqual, 2)
				So(s.Other[0].Value, ShouldEqual, 120.0) // 60 + 60
				So(s.Other[0].Count, ShouldEqual, 2)
				So(s.Other[1].Size, ShouldEqual, 3)
				So(s.Other[1].Value, ShouldEqual, 200.0)
				So(s.Other[1].Count, ShouldEqual, 1)
			})

			Convey("Then colors match the untruncated assignment", func() {
				for i, r := range s.Records {
					So(r.Color, ShouldEqual, full.Records[i].Color)
				}
			})
		})

		Convey("When every folded subset has zero value", func() {
			zeros := []dominance.Winner{
				winner(0b01, 1, []string{"SAT"}, "a", 1, 1, 10, 0),
				winner(0b10, 1, []string{"ABD"}, "b", 0, 0, 0, 0),
			}
			s := report.Build(zeros, report.MetricPts, 1)

			Convey("Then no bucket is emitted for it", func() {
				So(len(s.Other), ShouldEqual, 0)
			})
		})

		Convey("When selecting the pts metric", func() {
			s := report.Build(winners, report.MetricPts, 100)

			Convey("Then values come from winner points", func() {
				So(s.Records[0].Value, ShouldEqual, 9.0)
			})
		})
	})
}

func TestExportCSV(t *testing.T) {
	Convey("Given winners with awkward labels", t, func() {
		winners := []dominance.Winner{
			winner(0b01, 1, []string{"SAT"}, `model, "quoted"`, 5, 1, 50, 3),
			winner(0b11, 2, []string{"SAT", "ABD"}, "plain", 2, 1, 70, 0),
		}
		noUID := winner(0b10, 1, []string{"ABD"}, "ghost", 1, 1, 10, 0)
		noUID.Miner.UID = nil
		noUID.Miner.Weight = model.Absent()
		winners = append(winners, noUID)

		Convey("When exporting", func() {
			out, err := report.ExportCSV(winners, report.MetricSum)
			So(err, ShouldBeNil)

			rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
			So(err, ShouldBeNil)

			Convey("Then the header and all rows round-trip through a CSV reader", func() {
				So(len(rows), ShouldEqual, 4)
				So(rows[0][0], ShouldEqual, "subset")
			})

			Convey("Then commas and quotes in labels survive quoting", func() {
				found := false
				for _, row := range rows[1:] {
					if row[5] == `model, "quoted"` {
						found = true
						So(row[0], ShouldEqual, "SAT")
						So(row[9], ShouldEqual, "3")
					}
				}
				So(found, ShouldBeTrue)
			})

			Convey("Then absent fields export empty", func() {
				for _, row := range rows[1:] {
					if row[5] == "ghost" {
						So(row[4], ShouldEqual, "")
						So(row[6], ShouldEqual, "")
					}
				}
			})

			Convey("Then subset tuples join with plus", func() {
				var subsets []string
				for _, row := range rows[1:] {
					subsets = append(subsets, row[0])
				}
				So(subsets, ShouldContain, "SAT+ABD")
			})
		})
	})
}
