package site

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a router with the site registered", t, func() {
		r := chi.NewRouter()
		Register(r)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
			return w
		}

		Convey("Then / serves the index page", func() {
			w := get("/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, "Pick today's fit")
		})

		Convey("And static assets are served", func() {
			w := get("/static/app.js")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "/api/planner/daily")

			So(get("/static/style.css").Code, ShouldEqual, http.StatusOK)
		})

		Convey("And unknown assets are 404", func() {
			So(get("/static/missing.js").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And a nil router panics", func() {
			So(func() { Register(nil) }, ShouldPanic)
		})
	})
}
