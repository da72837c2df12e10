package client

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"coursefetch/internal"
)

// Classes fetches the top hierarchy level. The payload is a bare list.
func (c *Client) Classes(ctx context.Context, creds internal.Credentials) ([]internal.ClassInfo, error) {
	const op = "classes"
	const what = "load classes"

	if err := requireAuth(op, creds); err != nil {
		return nil, err
	}

	status, body, err := c.send(ctx, op, what, http.MethodGet, "classes", nil, creds.AccessToken, nil)
	if err != nil {
		return nil, err
	}

	return decodeList[internal.ClassInfo](op, what, status, body, matchBareArray)
}

// Courses fetches the courses of one class. The upstream response shape
// varies between a bare list and the nested-list convention, so both
// matchers are accepted.
func (c *Client) Courses(ctx context.Context, creds internal.Credentials, classID string) ([]internal.CourseInfo, error) {
	const op = "courses"
	const what = "load courses"

	if err := requireAuth(op, creds); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("classId", classID)

	status, body, err := c.send(ctx, op, what, http.MethodGet, "courses", query, creds.AccessToken, nil)
	if err != nil {
		return nil, err
	}

	return decodeList[internal.CourseInfo](op, what, status, body, matchBareArray, matchNestedArray)
}

// Lectures fetches the lecture list of one course with fixed
// pagination. This endpoint only ever responds with the nested-list
// shape.
func (c *Client) Lectures(ctx context.Context, creds internal.Credentials, courseID string) ([]internal.LectureInfo, error) {
	const op = "lectures"
	const what = "load lectures"

	if err := requireAuth(op, creds); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("page", "1")
	query.Set("size", "100")
	query.Set("courseId", courseID)

	status, body, err := c.send(ctx, op, what, http.MethodGet, "lecture", query, creds.AccessToken, nil)
	if err != nil {
		return nil, err
	}

	return decodeList[internal.LectureInfo](op, what, status, body, matchNestedArray)
}

// LectureResource looks up the lecture detail and returns the URL of
// the first resource with a non-blank URL. A well-formed detail without
// any such resource is a distinct not-found failure, not a parse
// failure.
func (c *Client) LectureResource(ctx context.Context, creds internal.Credentials, lectureID string) (string, error) {
	const op = "lecture-resource"
	const what = "load lecture resource"

	if err := requireAuth(op, creds); err != nil {
		return "", err
	}

	path := "lecture/" + url.PathEscape(lectureID)
	status, body, err := c.send(ctx, op, what, http.MethodGet, path, nil, creds.AccessToken, nil)
	if err != nil {
		return "", err
	}

	detail, err := decodeObject[internal.LectureDetail](op, what, status, body)
	if err != nil {
		return "", err
	}

	for _, resource := range detail.Resources {
		if strings.TrimSpace(resource.URL) != "" {
			return resource.URL, nil
		}
	}

	return "", internal.NewResourceNotFoundError(op)
}

// orderOf treats a missing order value as last.
func orderOf(n *int) int {
	if n == nil {
		return int(^uint(0) >> 1)
	}
	return *n
}

// SortClasses orders classes by orderNumber (absent last) then name,
// the order the dashboard renders.
func SortClasses(classes []internal.ClassInfo) {
	sort.SliceStable(classes, func(i, j int) bool {
		oi, oj := orderOf(classes[i].OrderNumber), orderOf(classes[j].OrderNumber)
		if oi != oj {
			return oi < oj
		}
		return classes[i].Name < classes[j].Name
	})
}

// SortCourses orders courses by orderNumber (absent last) then name.
func SortCourses(courses []internal.CourseInfo) {
	sort.SliceStable(courses, func(i, j int) bool {
		oi, oj := orderOf(courses[i].OrderNumber), orderOf(courses[j].OrderNumber)
		if oi != oj {
			return oi < oj
		}
		return courses[i].Name < courses[j].Name
	})
}

// SortLectures orders lectures by orderColumn (absent last) then title.
func SortLectures(lectures []internal.LectureInfo) {
	sort.SliceStable(lectures, func(i, j int) bool {
		oi, oj := orderOf(lectures[i].OrderColumn), orderOf(lectures[j].OrderColumn)
		if oi != oj {
			return oi < oj
		}
		return lectures[i].Title < lectures[j].Title
	})
}

// FormatDate trims an ISO timestamp to its date part for display.
func FormatDate(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if index := strings.Index(value, "T"); index > 0 {
		return value[:index]
	}
	return value
}
