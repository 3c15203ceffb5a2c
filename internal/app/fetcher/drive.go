package fetcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveSource reads the files of one Google Drive folder.
type DriveSource struct {
	service  *drive.Service
	folderID string
}

// NewDriveSource authenticates with a service-account key file.
// Extra options are appended, which lets tests point the client at a local server.
func NewDriveSource(ctx context.Context, folderID, serviceAccountFile string, opts ...option.ClientOption) (*DriveSource, error) {
	if folderID == "" {
		return nil, fmt.Errorf("drive folder id is required")
	}
	base := []option.ClientOption{option.WithScopes(drive.DriveReadonlyScope)}
	if serviceAccountFile != "" {
		base = append(base, option.WithCredentialsFile(serviceAccountFile))
	}
	service, err := drive.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &DriveSource{service: service, folderID: folderID}, nil
}

func (s *DriveSource) Describe() string {
	return "drive folder " + s.folderID
}

// List returns the non-trashed children of the folder, following pagination.
func (s *DriveSource) List(ctx context.Context) ([]RemoteFile, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", s.folderID)
	var out []RemoteFile
	pageToken := ""
	for {
		call := s.service.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, modifiedTime, mimeType, size)").
			PageSize(1000).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, err
		}
		for _, f := range resp.Files {
			modified, _ := time.Parse(time.RFC3339, f.ModifiedTime)
			out = append(out, RemoteFile{
				ID:           f.Id,
				Name:         f.Name,
				MimeType:     f.MimeType,
				Size:         f.Size,
				ModifiedTime: modified,
			})
		}
		if resp.NextPageToken == "" {
			return out, nil
		}
		pageToken = resp.NextPageToken
	}
}

// Download streams the file content to dst through a temporary .part file.
func (s *DriveSource) Download(ctx context.Context, file RemoteFile, dst string) error {
	resp, err := s.service.Files.Get(file.ID).Context(ctx).Download()
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	part := dst + ".part"
	out, err := os.Create(part)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(part)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(part)
		return err
	}
	return os.Rename(part, dst)
}
