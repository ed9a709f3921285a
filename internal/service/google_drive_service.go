package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
)

const folderMimeType = "application/vnd.google-apps.folder"
const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// GoogleDriveService implements domain.DriveService against the Drive
// v3 API. Every call is bounded by the configured timeout. The root
// folder is created lazily once and cached for the process lifetime.
type GoogleDriveService struct {
	tokens         domain.TokenProvider
	logger         logger.Logger
	timeout        time.Duration
	rootFolderName string

	rootMu       sync.Mutex
	rootFolderID string
}

// NewGoogleDriveService creates a Drive adapter
func NewGoogleDriveService(tokens domain.TokenProvider, logger logger.Logger, timeout time.Duration, rootFolderName string) *GoogleDriveService {
	if rootFolderName == "" {
		rootFolderName = "Customers"
	}
	return &GoogleDriveService{
		tokens:         tokens,
		logger:         logger,
		timeout:        timeout,
		rootFolderName: rootFolderName,
	}
}

func (s *GoogleDriveService) client(ctx context.Context) (*drive.Service, error) {
	accessToken, err := s.tokens.GetAccessToken(ctx, domain.GoogleService)
	if err != nil {
		return nil, err
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := drive.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "drive", Op: "create client", Err: err}
	}
	return svc, nil
}

// escapeQuery escapes single quotes for Drive search query literals
func escapeQuery(value string) string {
	return strings.ReplaceAll(value, "'", `\'`)
}

// rootFolder returns the cached root folder ID, creating the folder on
// first use.
func (s *GoogleDriveService) rootFolder(ctx context.Context) (string, error) {
	s.rootMu.Lock()
	defer s.rootMu.Unlock()
	if s.rootFolderID != "" {
		return s.rootFolderID, nil
	}

	svc, err := s.client(ctx)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", escapeQuery(s.rootFolderName), folderMimeType)
	list, err := svc.Files.List().Q(query).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", &domain.ErrExternalService{Service: "drive", Op: "find root folder", Err: err}
	}
	if len(list.Files) > 0 {
		s.rootFolderID = list.Files[0].Id
		return s.rootFolderID, nil
	}

	folder, err := svc.Files.Create(&drive.File{
		Name:     s.rootFolderName,
		MimeType: folderMimeType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", &domain.ErrExternalService{Service: "drive", Op: "create root folder", Err: err}
	}

	s.logger.WithField("folder_id", folder.Id).Info("Created customers root folder")
	s.rootFolderID = folder.Id
	return s.rootFolderID, nil
}

// EnsureCustomerFolder finds or creates the customer folder. The
// lookup-before-create is best-effort: two concurrent first-time
// signups for the same phone can both miss the lookup and create
// duplicate folders, a known race the non-transactional store cannot
// rule out.
func (s *GoogleDriveService) EnsureCustomerFolder(ctx context.Context, phone, name string) (string, bool, error) {
	rootID, err := s.rootFolder(ctx)
	if err != nil {
		return "", false, err
	}

	svc, err := s.client(ctx)
	if err != nil {
		return "", false, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := fmt.Sprintf("name contains '%s' and mimeType='%s' and '%s' in parents and trashed=false",
		escapeQuery(phone), folderMimeType, rootID)
	list, err := svc.Files.List().Q(query).Fields("files(id, name)").PageSize(1).Context(callCtx).Do()
	if err != nil {
		return "", false, &domain.ErrExternalService{Service: "drive", Op: "find customer folder", Err: err}
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, false, nil
	}

	folder, err := svc.Files.Create(&drive.File{
		Name:     domain.CustomerFolderName(phone, name),
		MimeType: folderMimeType,
		Parents:  []string{rootID},
	}).Fields("id").Context(callCtx).Do()
	if err != nil {
		return "", false, &domain.ErrExternalService{Service: "drive", Op: "create customer folder", Err: err}
	}
	return folder.Id, true, nil
}

// UploadImage stores one customer photo in the given folder
func (s *GoogleDriveService) UploadImage(ctx context.Context, folderID, fileName, mimeType string, data []byte) (string, error) {
	svc, err := s.client(ctx)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	file, err := svc.Files.Create(&drive.File{
		Name:    fileName,
		Parents: []string{folderID},
	}).Media(bytes.NewReader(data)).Fields("id, webViewLink").Context(ctx).Do()
	if err != nil {
		return "", &domain.ErrExternalService{Service: "drive", Op: "upload image", Err: err}
	}
	return file.Id, nil
}

// RenameFolder renames a customer folder, used when the customer name
// changes.
func (s *GoogleDriveService) RenameFolder(ctx context.Context, folderID, newName string) error {
	svc, err := s.client(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err = svc.Files.Update(folderID, &drive.File{Name: newName}).Context(ctx).Do()
	if err != nil {
		return &domain.ErrExternalService{Service: "drive", Op: "rename folder", Err: err}
	}
	return nil
}

// findSpreadsheetInFolder returns the ID of the first spreadsheet in
// the folder, or "" when none exists.
func (s *GoogleDriveService) findSpreadsheetInFolder(ctx context.Context, folderID string) (string, error) {
	svc, err := s.client(ctx)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := fmt.Sprintf("'%s' in parents and mimeType='%s'", folderID, spreadsheetMimeType)
	list, err := svc.Files.List().Q(query).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", &domain.ErrExternalService{Service: "drive", Op: "find spreadsheet", Err: err}
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

// moveFileToFolder reparents a file from the Drive root into folderID
func (s *GoogleDriveService) moveFileToFolder(ctx context.Context, fileID, folderID string) error {
	svc, err := s.client(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err = svc.Files.Update(fileID, nil).AddParents(folderID).RemoveParents("root").Context(ctx).Do()
	if err != nil {
		return &domain.ErrExternalService{Service: "drive", Op: "move file", Err: err}
	}
	return nil
}
