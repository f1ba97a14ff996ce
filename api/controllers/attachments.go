package controllers

import (
	"net/http"
	"strings"

	"github.com/stocknexus/stocknexus-backend/api/middleware"
	"github.com/stocknexus/stocknexus-backend/api/responses"
	"github.com/stocknexus/stocknexus-backend/internal/attachments"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
)

const attachmentMaxFormBytes = 32 << 20

// AttachmentUpload stores one multipart file and returns its object path.
func AttachmentUpload(svc attachments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attachment service unavailable"))
			return
		}

		if err := r.ParseMultipartForm(attachmentMaxFormBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file required"))
			return
		}
		defer func() { _ = file.Close() }()

		att, err := svc.Upload(r.Context(), middleware.ActorFromContext(r.Context()), attachments.UploadRequest{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, att)
	}
}

// AttachmentDownloadURL mints a short-lived signed link for a stored object.
func AttachmentDownloadURL(svc attachments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attachment service unavailable"))
			return
		}

		objectPath := strings.TrimSpace(r.URL.Query().Get("path"))
		if objectPath == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "path is required"))
			return
		}

		url, err := svc.DownloadURL(r.Context(), middleware.ActorFromContext(r.Context()), objectPath)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"url": url})
	}
}
