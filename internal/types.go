package internal

// Credentials carries the injected session identity every authenticated
// operation requires. It is immutable for the lifetime of a session; the
// surrounding application owns its storage.
type Credentials struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId"`
	UserType    string `json:"userType"`
	DeviceID    string `json:"deviceId"`
}

// IsZero reports whether the credentials are missing the fields required
// to issue an authenticated request.
func (c Credentials) IsZero() bool {
	return c.AccessToken == "" || c.UserID == ""
}

// ClassInfo is one entry of the top hierarchy level.
type ClassInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	OrderNumber  *int   `json:"orderNumber"`
	CurrentImage string `json:"currentImage"`
}

// CourseInfo belongs to exactly one class (by the id used to fetch it).
type CourseInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	OrderNumber  *int   `json:"orderNumber"`
	Image        string `json:"image"`
	CurrentImage string `json:"currentImage"`
}

// ImageRef returns the course thumbnail reference, preferring the image
// field over currentImage.
func (c CourseInfo) ImageRef() string {
	if c.Image != "" {
		return c.Image
	}
	return c.CurrentImage
}

// LectureInfo is a lecture list entry; the resource list is fetched
// separately via the detail lookup.
type LectureInfo struct {
	ID          string `json:"id"`
	Code        *int   `json:"code"`
	Title       string `json:"title"`
	OrderColumn *int   `json:"orderColumn"`
	Avatar      string `json:"avatar"`
	CourseID    string `json:"courseId"`
}

// LectureResource is one downloadable asset attached to a lecture.
type LectureResource struct {
	URL    string `json:"url"`
	Type   string `json:"type"`
	Source string `json:"source"`
}

// LectureDetail is the detail lookup payload for a single lecture.
type LectureDetail struct {
	ID        string            `json:"id"`
	Resources []LectureResource `json:"resources"`
}

// UserProfile is the account payload returned by the profile fetch.
type UserProfile struct {
	ID          string `json:"id"`
	UserName    string `json:"userName"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	UserType    string `json:"userType"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	Birthday    string `json:"birthday"`
	PhoneNumber string `json:"phoneNumber"`
	CitizenID   string `json:"citizenId"`
	Address     string `json:"address"`
}

// ProgressFunc reports streamed download progress. total is -1 when the
// server did not announce a Content-Length; done is monotonically
// non-decreasing and, when total is known, the final call has done ==
// total.
type ProgressFunc func(done, total int64)
