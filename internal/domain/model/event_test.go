package model_test

import (
	"testing"

	model "github.com/okian/pitchside/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPointsTransaction_HasSession(t *testing.T) {
	convey.Convey("Given points transactions", t, func() {
		convey.Convey("When the session reference is set", func() {
			tx := model.PointsTransaction{SessionID: "s-1"}
			convey.So(tx.HasSession(), convey.ShouldBeTrue)
		})

		convey.Convey("When the session reference is empty or blank", func() {
			convey.So(model.PointsTransaction{}.HasSession(), convey.ShouldBeFalse)
			convey.So(model.PointsTransaction{SessionID: "  "}.HasSession(), convey.ShouldBeFalse)
		})
	})
}
