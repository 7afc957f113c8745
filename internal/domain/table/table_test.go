package table_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	model "github.com/subnetlab/paretoboard/internal/domain/model"
	table "github.com/subnetlab/paretoboard/internal/domain/table"
)

func TestInferEnvironments(t *testing.T) {
	Convey("Given dashboard column sets", t, func() {
		Convey("When canonical codes are present", func() {
			cols := []string{"UID", "Model", "Rev", "SAT", "ABD", "DED", "Pts", "Elig", "Wgt"}
			envs := table.InferEnvironments(cols)

			Convey("Then they are picked in preference order", func() {
				So(envs, ShouldResemble, []string{"SAT", "ABD", "DED"})
			})
		})

		Convey("When canonical codes are decorated", func() {
			cols := []string{"UID", "Model", "sat (%)", "abd-score", "L1", "Wgt"}
			envs := table.InferEnvironments(cols)

			Convey("Then matching is by normalized prefix and originals are kept", func() {
				So(envs, ShouldResemble, []string{"sat (%)", "abd-score", "L1"})
			})
		})

		Convey("When no canonical codes match", func() {
			cols := []string{"UID", "Model", "Rev", "FOO", "BAR", "BAZQUX", "Pts", "Wgt", "Eligibility"}
			envs := table.InferEnvironments(cols)

			Convey("Then the shape heuristic recovers custom codes", func() {
				So(envs, ShouldResemble, []string{"FOO", "BAR", "BAZQUX"})
			})
		})

		Convey("When only one canonical code matches", func() {
			cols := []string{"UID", "Model", "SAT", "XY", "ZW"}
			envs := table.InferEnvironments(cols)

			Convey("Then the fallback still runs and keeps earlier finds", func() {
				So(envs, ShouldResemble, []string{"SAT", "XY", "ZW"})
			})
		})

		Convey("When more than eight environment-shaped columns exist", func() {
			cols := []string{"E1", "E2", "E3", "E4", "E5", "E6", "E7", "E8", "E9", "E10"}
			envs := table.InferEnvironments(cols)

			Convey("Then the result is capped at eight", func() {
				So(len(envs), ShouldEqual, 8)
			})
		})

		Convey("When columns repeat", func() {
			cols := []string{"SAT", "SAT", "ABD"}
			envs := table.InferEnvironments(cols)

			Convey("Then duplicates collapse", func() {
				So(envs, ShouldResemble, []string{"SAT", "ABD"})
			})
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given an upstream table payload", t, func() {
		payload := model.TablePayload{
			Columns: []string{"UID", "Model", "Rev", "SAT", "ABD", "Pts", "Wgt"},
			Rows: [][]any{
				{float64(7), "alpha", "r1", 80.5, "60/100", float64(12), 0.5},
				{"oops", "beta", nil, "81.9*", nil, nil, "0.25"},
				{nil, nil, nil, "junk", "NaN", "x", nil},
			},
		}
		envs := []string{"SAT", "ABD"}

		Convey("When normalizing", func() {
			miners := table.Normalize(payload, envs)

			Convey("Then every row yields a miner", func() {
				So(len(miners), ShouldEqual, 3)
			})

			Convey("Then clean rows parse fully", func() {
				m := miners[0]
				So(*m.UID, ShouldEqual, 7)
				So(m.ID, ShouldEqual, "7:alpha")
				So(m.Model, ShouldEqual, "alpha")
				So(m.Rev, ShouldEqual, "r1")
				v, ok := m.Env["SAT"].Value()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 80.5)
				v, ok = m.Env["ABD"].Value()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 60.0)
				v, ok = m.Pts.Value()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 12.0)
			})

			Convey("Then malformed cells degrade to absent, not errors", func() {
				m := miners[1]
				So(m.UID, ShouldBeNil)
				So(m.ID, ShouldEqual, "?:beta")
				v, ok := m.Env["SAT"].Value()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 81.9)
				So(m.Env["ABD"].Defined(), ShouldBeFalse)
				So(m.Pts.Defined(), ShouldBeFalse)
				w, ok := m.Weight.Value()
				So(ok, ShouldBeTrue)
				So(w, ShouldEqual, 0.25)
			})

			Convey("Then fully garbled rows survive with everything absent", func() {
				m := miners[2]
				So(m.UID, ShouldBeNil)
				So(m.Model, ShouldEqual, "")
				So(m.Env["SAT"].Defined(), ShouldBeFalse)
				So(m.Env["ABD"].Defined(), ShouldBeFalse)
			})

			Convey("Then every miner has an entry per inferred environment", func() {
				for _, m := range miners {
					So(len(m.Env), ShouldEqual, len(envs))
				}
			})
		})

		Convey("When a column is missing entirely", func() {
			miners := table.Normalize(model.TablePayload{
				Columns: []string{"Model", "SAT", "ABD"},
				Rows:    [][]any{{"gamma", 1.0, 2.0}},
			}, envs)

			Convey("Then the field is absent for every row", func() {
				So(miners[0].UID, ShouldBeNil)
				So(miners[0].Pts.Defined(), ShouldBeFalse)
				So(miners[0].Weight.Defined(), ShouldBeFalse)
			})
		})

		Convey("When a row is shorter than the column list", func() {
			miners := table.Normalize(model.TablePayload{
				Columns: []string{"UID", "Model", "SAT", "ABD"},
				Rows:    [][]any{{float64(1), "short"}},
			}, envs)

			Convey("Then missing positions read as absent", func() {
				So(miners[0].Env["SAT"].Defined(), ShouldBeFalse)
				So(miners[0].Env["ABD"].Defined(), ShouldBeFalse)
			})
		})
	})
}
