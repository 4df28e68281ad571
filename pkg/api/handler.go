package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"golestoon/pkg/course"
	"golestoon/pkg/store"
)

const (
	defaultPerPage = 50
	maxPerPage     = 500
)

type catalogHandler struct {
	src Source
}

// CourseItem is a catalogue entry with its key.
type CourseItem struct {
	Key string `json:"key"`
	course.Course
}

// OfferingsPayload is the raw synced catalogue, as stored on disk.
type OfferingsPayload struct {
	Available   course.Offerings `json:"available"`
	Unavailable course.Offerings `json:"unavailable"`
}

func (h *catalogHandler) catalog(c *gin.Context) (course.Catalog, bool) {
	available, unavailable, err := h.src.LoadOfferings()
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return nil, false
	}
	if available == nil && unavailable == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeNoCatalog, "no course data has been synced yet")
		return nil, false
	}
	return store.Flatten(available, unavailable), true
}

func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// List handles GET /courses?q=&major=&available=&day=&gender=&general=&page=&per_page=
// available=true keeps open sections, available=false closed ones.
func (h *catalogHandler) List(c *gin.Context) {
	f := course.Filter{
		Major:  c.Query("major"),
		Gender: c.Query("gender"),
	}
	if v := c.Query("available"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "available must be true or false")
			return
		}
		f.AvailableOnly = b
		f.UnavailableOnly = !b
	}
	if v := c.Query("general"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "general must be true or false")
			return
		}
		f.GeneralOnly = b
	}
	if v := c.Query("day"); v != "" {
		d, err := course.ParseDay(v)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		f.Day = &d
	}
	page, ok := queryInt(c, "page", 1)
	if !ok {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "page must be a positive integer")
		return
	}
	perPage, ok := queryInt(c, "per_page", defaultPerPage)
	if !ok {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "per_page must be a positive integer")
		return
	}
	perPage = min(perPage, maxPerPage)

	catalog, ok := h.catalog(c)
	if !ok {
		return
	}
	results := catalog.Search(c.Query("q"), f)

	total := len(results)
	from := min((page-1)*perPage, total)
	to := min(from+perPage, total)
	items := make([]CourseItem, 0, to-from)
	for _, r := range results[from:to] {
		items = append(items, CourseItem{Key: r.Key, Course: r.Course})
	}
	successPage(c, http.StatusOK, gin.H{"courses": items}, &Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// Get handles GET /courses/:key
func (h *catalogHandler) Get(c *gin.Context) {
	catalog, ok := h.catalog(c)
	if !ok {
		return
	}
	key := c.Param("key")
	crs, found := catalog[key]
	if !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "course not found")
		return
	}
	success(c, http.StatusOK, gin.H{"course": CourseItem{Key: key, Course: crs}})
}

// Majors handles GET /majors
func (h *catalogHandler) Majors(c *gin.Context) {
	catalog, ok := h.catalog(c)
	if !ok {
		return
	}
	success(c, http.StatusOK, gin.H{"majors": catalog.Majors()})
}

// Offerings handles GET /offerings, used by other instances to sync.
func (h *catalogHandler) Offerings(c *gin.Context) {
	available, unavailable, err := h.src.LoadOfferings()
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	if available == nil && unavailable == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeNoCatalog, "no course data has been synced yet")
		return
	}
	success(c, http.StatusOK, OfferingsPayload{Available: available, Unavailable: unavailable})
}
