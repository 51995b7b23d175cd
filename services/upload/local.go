package uploadsvc

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nvthanh/eduleave/core"
)

const maxFileSize = 4 << 20 // 4 MiB

var (
	ErrFileTooLarge    = errors.New("file exceeds the 4MB size limit")
	ErrUnsupportedType = errors.New("only jpeg, png and pdf files are accepted")

	allowedTypes = map[string]string{
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
		"application/pdf": ".pdf",
	}
)

// Service stores leave request attachments and returns their public URL.
type Service interface {
	Save(filename string, src io.Reader) (url string, err error)
}

type localService struct {
	dir     string
	baseURL string
}

var _ Service = (*localService)(nil)

// NewLocalService stores attachments on local disk under conf.Upload.Dir.
func NewLocalService(conf *core.Config) (Service, error) {
	dir := conf.Upload.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(conf.WorkDir, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating upload dir")
	}
	return &localService{dir: dir, baseURL: strings.TrimRight(conf.Upload.BaseURL, "/")}, nil
}

func (svc *localService) Save(filename string, src io.Reader) (string, error) {
	// sniff the content type from the first bytes
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", errors.Wrap(err, "reading upload")
	}
	head = head[:n]

	ext, ok := allowedTypes[http.DetectContentType(head)]
	if !ok {
		return "", ErrUnsupportedType
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(svc.dir, name))
	if err != nil {
		return "", errors.Wrap(err, "creating upload file")
	}
	defer dst.Close()

	if _, err := dst.Write(head); err != nil {
		return "", errors.Wrap(err, "writing upload")
	}
	written, err := io.Copy(dst, io.LimitReader(src, maxFileSize))
	if err != nil {
		return "", errors.Wrap(err, "writing upload")
	}
	if int64(len(head))+written > maxFileSize {
		_ = os.Remove(filepath.Join(svc.dir, name))
		return "", ErrFileTooLarge
	}

	return svc.baseURL + "/" + name, nil
}
