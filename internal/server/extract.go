package server

import (
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/waterbills/constants"
	"github.com/joseph-ayodele/waterbills/internal/entity"
)

const (
	fieldSingle = "file"
	fieldMulti  = "files"
)

const msgNoFile = "No file uploaded."

// extract handles POST /extract. A single "file" part answers with the
// outcome itself; one or more "files" parts answer with a batch.
func (s *Server) extract(c *gin.Context) {
	if s.cfg.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)
	}
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoFile})
		return
	}

	if multi := form.File[fieldMulti]; len(multi) > 0 {
		results := make([]entity.Outcome, 0, len(multi))
		for _, fh := range multi {
			out, err := s.processUpload(c, fh)
			if err != nil {
				out = entity.Failure(fh.Filename, constants.StatusFailed, err.Error())
			}
			results = append(results, out)
		}
		c.JSON(http.StatusOK, entity.NewBatchResult(results))
		return
	}

	single := form.File[fieldSingle]
	if len(single) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoFile})
		return
	}
	out, err := s.processUpload(c, single[0])
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// processUpload stores the part under a unique name, runs the pipeline and
// removes the file again. The outcome carries the client's file name.
func (s *Server) processUpload(c *gin.Context, fh *multipart.FileHeader) (entity.Outcome, error) {
	original := filepath.Base(fh.Filename)
	dst := filepath.Join(s.cfg.UploadDir, uuid.NewString()+"_"+original)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		s.logger.Error("save upload failed", "file", original, "error", err)
		return entity.Outcome{}, err
	}
	defer func() {
		if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("remove upload failed", "path", dst, "error", err)
		}
	}()

	s.logger.Info("received file", "file", original, "size", fh.Size)
	out, err := s.proc.ProcessDocument(c.Request.Context(), dst)
	if err != nil {
		s.logger.Error("extract failed", "file", original, "error", err)
		return entity.Outcome{}, err
	}
	out = out.WithFileName(original)

	if s.saver != nil {
		if err := s.saver.SaveOutcome(c.Request.Context(), out); err != nil {
			s.logger.Warn("save outcome failed", "file", original, "error", err)
		}
	}
	return out, nil
}
