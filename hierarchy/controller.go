// Package hierarchy gates re-fetching of the three-level content
// hierarchy. Each level is a small state machine over NotLoaded,
// Loading and Loaded(parent); selecting the parent that is already
// loaded replays the memoized list without a network call.
package hierarchy

import (
	"context"
	"errors"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"coursefetch/internal"
)

// LoadState is the per-level fetch state.
type LoadState int

const (
	NotLoaded LoadState = iota
	Loading
	Loaded
)

// String returns the string representation of LoadState.
func (s LoadState) String() string {
	switch s {
	case NotLoaded:
		return "NotLoaded"
	case Loading:
		return "Loading"
	case Loaded:
		return "Loaded"
	default:
		return "Unknown"
	}
}

// ErrLoadInProgress is returned when a level is selected while a fetch
// for it is still outstanding. Callers treat it as a no-op; it prevents
// duplicate concurrent fetches for the same level.
var ErrLoadInProgress = errors.New("load already in progress")

// Cache keys for the memoized last-known list of each level.
const (
	keyClasses  = "classes"
	keyCourses  = "courses"
	keyLectures = "lectures"
)

// level tracks one hierarchy level: its state and, when Loaded, the
// parent id the current list belongs to.
type level struct {
	state  LoadState
	parent string
}

// Controller is the per-session hierarchy cache. It memoizes only the
// currently loaded parent per level; selecting a different parent
// re-fetches and discards the prior list. The class level has no parent
// and is loaded at most once per session.
type Controller struct {
	mu       sync.Mutex
	api      internal.CatalogAPI
	creds    internal.Credentials
	classes  level
	courses  level
	lectures level
	store    *gocache.Cache
}

// NewController creates a controller with session credentials injected.
// All levels start NotLoaded; the controller has no persistence.
func NewController(api internal.CatalogAPI, creds internal.Credentials) *Controller {
	return &Controller{
		api:   api,
		creds: creds,
		store: gocache.New(gocache.NoExpiration, 0),
	}
}

// Classes returns the class list, fetching it on first selection and
// replaying the memoized list afterwards.
func (c *Controller) Classes(ctx context.Context) ([]internal.ClassInfo, error) {
	c.mu.Lock()
	switch c.classes.state {
	case Loading:
		c.mu.Unlock()
		return nil, ErrLoadInProgress
	case Loaded:
		defer c.mu.Unlock()
		return c.cachedClasses(), nil
	}
	c.classes.state = Loading
	c.mu.Unlock()

	items, err := c.api.Classes(ctx, c.creds)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.classes.state = NotLoaded
		return nil, err
	}

	c.classes.state = Loaded
	c.store.Set(keyClasses, items, gocache.NoExpiration)
	return items, nil
}

// SelectClass loads the courses of classID. Re-selecting the loaded
// class replays its course list; selecting a different class re-fetches
// and, on success, resets the lecture level below it.
func (c *Controller) SelectClass(ctx context.Context, classID string) ([]internal.CourseInfo, error) {
	c.mu.Lock()
	switch c.courses.state {
	case Loading:
		c.mu.Unlock()
		return nil, ErrLoadInProgress
	case Loaded:
		if c.courses.parent == classID {
			defer c.mu.Unlock()
			return c.cachedCourses(), nil
		}
	}
	c.courses.state = Loading
	c.mu.Unlock()

	items, err := c.api.Courses(ctx, c.creds, classID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.courses.state = NotLoaded
		return nil, err
	}

	c.courses = level{state: Loaded, parent: classID}
	c.store.Set(keyCourses, items, gocache.NoExpiration)

	// A new parent invalidates the level below, not the one above.
	c.lectures = level{}
	c.store.Delete(keyLectures)

	return items, nil
}

// SelectCourse loads the lectures of courseID, with the same
// memoization rules as SelectClass.
func (c *Controller) SelectCourse(ctx context.Context, courseID string) ([]internal.LectureInfo, error) {
	c.mu.Lock()
	switch c.lectures.state {
	case Loading:
		c.mu.Unlock()
		return nil, ErrLoadInProgress
	case Loaded:
		if c.lectures.parent == courseID {
			defer c.mu.Unlock()
			return c.cachedLectures(), nil
		}
	}
	c.lectures.state = Loading
	c.mu.Unlock()

	items, err := c.api.Lectures(ctx, c.creds, courseID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lectures.state = NotLoaded
		return nil, err
	}

	c.lectures = level{state: Loaded, parent: courseID}
	c.store.Set(keyLectures, items, gocache.NoExpiration)
	return items, nil
}

// ClassesState reports the class level state.
func (c *Controller) ClassesState() LoadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.classes.state
}

// CoursesState reports the course level state and its loaded parent.
func (c *Controller) CoursesState() (LoadState, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.courses.state, c.courses.parent
}

// LecturesState reports the lecture level state and its loaded parent.
func (c *Controller) LecturesState() (LoadState, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lectures.state, c.lectures.parent
}

func (c *Controller) cachedClasses() []internal.ClassInfo {
	if v, found := c.store.Get(keyClasses); found {
		return v.([]internal.ClassInfo)
	}
	return nil
}

func (c *Controller) cachedCourses() []internal.CourseInfo {
	if v, found := c.store.Get(keyCourses); found {
		return v.([]internal.CourseInfo)
	}
	return nil
}

func (c *Controller) cachedLectures() []internal.LectureInfo {
	if v, found := c.store.Get(keyLectures); found {
		return v.([]internal.LectureInfo)
	}
	return nil
}
