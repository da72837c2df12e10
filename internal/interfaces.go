package internal

import "context"

// CatalogAPI exposes the authenticated fetch operations against the
// course-content backend.
type CatalogAPI interface {
	Login(ctx context.Context, username, password, deviceID string) (Credentials, error)
	Profile(ctx context.Context, creds Credentials) (UserProfile, error)
	Classes(ctx context.Context, creds Credentials) ([]ClassInfo, error)
	Courses(ctx context.Context, creds Credentials, classID string) ([]CourseInfo, error)
	Lectures(ctx context.Context, creds Credentials, courseID string) ([]LectureInfo, error)
	LectureResource(ctx context.Context, creds Credentials, lectureID string) (string, error)
}

// AssetStore maps entity ids to stable on-disk cache paths. File
// existence at the returned path is the sole cached-ness predicate.
type AssetStore interface {
	Path(namespace, entityID string) (string, error)
	Has(namespace, entityID string) bool
}

// AssetDownloader streams a remote asset to a cache path, reporting
// progress as bytes arrive. Must be a no-op when the path already
// exists.
type AssetDownloader interface {
	Download(ctx context.Context, ref, destPath string, onProgress ProgressFunc) error
}
