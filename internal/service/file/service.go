package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"math"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/anpk/attendance-backend-go/internal/domain/attendance"
	"github.com/anpk/attendance-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	maxPhotoSize = 150 * 1024
	minPhotoSize = 50 * 1024
)

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type FileService interface {
	// UploadAttendancePhoto stores a check-in proof under
	// attendance/{userID}/{date}/{uuid}_{basename} and returns the key
	UploadAttendancePhoto(ctx context.Context, userID string, date time.Time, file io.Reader, filename string) (string, error)

	// OpenFile streams a stored file with its content type
	OpenFile(ctx context.Context, key string) (io.ReadCloser, string, error)

	DeleteFile(ctx context.Context, key string) error
	GetFileURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadAttendancePhoto implements FileService.
// JPEG and PNG photos are compressed to 50KB - 150KB and stored as JPEG;
// other formats are stored as uploaded.
func (s *fileServiceImpl) UploadAttendancePhoto(ctx context.Context, userID string, date time.Time, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := contentTypes[ext]
	if !ok {
		return "", attendance.ErrPhotoUnsupported
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	base := sanitizeBaseName(filename)
	if ext == ".jpg" || ext == ".jpeg" || ext == ".png" {
		compressed, reencoded, err := compressImage(buffer, maxPhotoSize, minPhotoSize)
		if err != nil {
			return "", fmt.Errorf("%w: %v", attendance.ErrPhotoUnsupported, err)
		}
		buffer = compressed
		if reencoded {
			base = strings.TrimSuffix(base, filepath.Ext(base)) + ".jpg"
			contentType = "image/jpeg"
		}
	}

	key := path.Join("attendance", userID, date.Format(attendance.DateLayout), fmt.Sprintf("%s_%s", uuid.NewString(), base))

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(buffer), key, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload attendance photo: %w", err)
	}

	return uploadedPath, nil
}

// OpenFile implements FileService.
func (s *fileServiceImpl) OpenFile(ctx context.Context, key string) (io.ReadCloser, string, error) {
	rc, err := s.storage.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) || errors.Is(err, storage.ErrInvalidPath) {
			return nil, "", attendance.ErrPhotoNotFound
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}

	contentType, ok := contentTypes[strings.ToLower(path.Ext(key))]
	if !ok {
		contentType = "application/octet-stream"
	}
	return rc, contentType, nil
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

// GetFileURL generates URL to access file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, key, expiry)
}

// ==================== HELPER FUNCTIONS ====================

func sanitizeBaseName(filename string) string {
	base := filepath.Base(filepath.ToSlash(filename))
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	base = unsafeNameChars.ReplaceAllString(base, "_")
	if len(base) > 100 {
		base = base[len(base)-100:]
	}
	if base == "" || strings.HasPrefix(base, ".") {
		base = "photo" + base
	}
	return base
}

// compressImage compresses an image to target size range.
// maxSize: maximum allowed size (e.g., 150KB)
// minSize: minimum target size (e.g., 50KB)
// reencoded reports whether the result is a new JPEG rather than the input.
func compressImage(buffer []byte, maxSize int, minSize int) (out []byte, reencoded bool, err error) {
	// Small images are kept as they are
	if len(buffer) <= maxSize {
		return buffer, false, nil
	}

	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()

	// Start with quality 85 and reduce progressively
	quality := 85
	var compressed []byte

	for quality >= 50 {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, false, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		compressed = buf.Bytes()

		if len(compressed) <= maxSize {
			return compressed, true, nil
		}
		quality -= 5
	}

	// Still too large after quality reduction, resize towards the middle of the range
	targetSize := (maxSize + minSize) / 2
	ratio := math.Sqrt(float64(targetSize) / float64(len(compressed)))
	newWidth := int(float64(originalWidth) * ratio)
	newHeight := int(float64(originalHeight) * ratio)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	resized := resizeImage(img, newWidth, newHeight)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 70}); err != nil {
		return nil, false, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), true, nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
