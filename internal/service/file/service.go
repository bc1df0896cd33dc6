package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"path"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

var (
	ErrInvalidImage = errors.New("uploaded file is not a valid jpg or png image")
	ErrUpload       = errors.New("failed to store uploaded image")
)

const (
	// proofs are normalised to JPEG no wider/taller than this
	maxImageDimension = 1280
	maxImageBytes     = 200 * 1024
)

// FileService is the media store for proof and enrollment photos. Every
// image is re-encoded to JPEG before it is stored.
type FileService interface {
	UploadAttendanceProof(ctx context.Context, employeeID string, workDate string, image []byte, kind string) (string, error)
	UploadFaceReference(ctx context.Context, employeeID string, image []byte) (string, error)
	DeleteFile(ctx context.Context, url string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadAttendanceProof stores attendance/{date}/{employeeID}-{kind}-{unix}-{id}.jpg
func (s *fileServiceImpl) UploadAttendanceProof(ctx context.Context, employeeID string, workDate string, img []byte, kind string) (string, error) {
	name := fmt.Sprintf("%s-%s-%d-%s.jpg", employeeID, kind, time.Now().Unix(), uuid.NewString()[:8])
	return s.store(ctx, img, path.Join("attendance", workDate, name))
}

// UploadFaceReference stores faces/{employeeID}/{id}.jpg
func (s *fileServiceImpl) UploadFaceReference(ctx context.Context, employeeID string, img []byte) (string, error) {
	return s.store(ctx, img, path.Join("faces", employeeID, uuid.NewString()+".jpg"))
}

func (s *fileServiceImpl) store(ctx context.Context, img []byte, key string) (string, error) {
	normalized, err := normalizeImage(img)
	if err != nil {
		return "", err
	}

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(normalized), key, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	url, err := s.storage.GetURL(ctx, uploadedPath, 0)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	return url, nil
}

// DeleteFile removes a previously stored image by its URL. URLs that this
// store did not produce are ignored.
func (s *fileServiceImpl) DeleteFile(ctx context.Context, url string) error {
	p, ok := s.storage.PathFromURL(url)
	if !ok {
		return nil
	}
	return s.storage.Delete(ctx, p)
}

// ==================== HELPER FUNCTIONS ====================

// normalizeImage decodes a jpg/png, downscales it to maxImageDimension and
// re-encodes it as JPEG, lowering quality until it fits maxImageBytes.
func normalizeImage(buffer []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxImageDimension || height > maxImageDimension {
		if width >= height {
			height = height * maxImageDimension / width
			width = maxImageDimension
		} else {
			width = width * maxImageDimension / height
			height = maxImageDimension
		}
		img = resizeImage(img, max(width, 1), max(height, 1))
	}

	var compressed []byte
	for quality := 85; quality >= 50; quality -= 5 {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		compressed = buf.Bytes()
		if len(compressed) <= maxImageBytes {
			break
		}
	}
	return compressed, nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
