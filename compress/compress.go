// Package compress serves the upload form, converts uploaded images to WebP,
// & serves both the originals & converted files back.
package compress

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"chimbori.dev/shrink/codec"
	"chimbori.dev/shrink/conf"
	"chimbori.dev/shrink/core"
	"chimbori.dev/shrink/storage"
	"chimbori.dev/shrink/validation"
	"github.com/dustin/go-humanize"
	"github.com/lmittmann/tint"
)

// Form field carrying the uploaded image.
const imageField = "image"

type Handler struct {
	appName       string
	maxUploadSize int64
	store         *storage.Store
}

// Result describes one completed conversion.
type Result struct {
	OriginalName  string
	ConvertedName string
	OriginalSize  int64
	ConvertedSize int64
}

func (r Result) FormattedOriginalSize() string  { return core.FormatFileSize(r.OriginalSize) }
func (r Result) FormattedConvertedSize() string { return core.FormatFileSize(r.ConvertedSize) }
func (r Result) PercentSaved() float64          { return core.PercentSaved(r.OriginalSize, r.ConvertedSize) }

func New(cfg conf.AppConfig, store *storage.Store) *Handler {
	return &Handler{
		appName:       conf.AppName,
		maxUploadSize: cfg.Upload.MaxSizeBytes,
		store:         store,
	}
}

func (h *Handler) SetupHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /compress", h.handleCompress)
	mux.HandleFunc("GET /uploads/{filename}", h.handleOriginal)
	mux.HandleFunc("GET /compressed/{filename}", h.handleConverted)
	mux.HandleFunc("GET /download/{filename}", h.handleDownload)
}

// GET /?error={code}
func (h *Handler) handleIndex(w http.ResponseWriter, req *http.Request) {
	flash := flashMessages[req.URL.Query().Get("error")]
	ContentTempl(h.appName, "Compress an image", IndexTempl(flash)).Render(req.Context(), w)
}

// POST /compress (multipart/form-data, field “image”)
// Saves the upload, converts it to WebP, & renders both with their sizes.
func (h *Handler) handleCompress(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, h.maxUploadSize)
	file, header, err := req.FormFile(imageField)
	if req.MultipartForm != nil {
		defer req.MultipartForm.RemoveAll()
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.renderError(w, req, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("That file is too large; the limit is %s.", humanize.IBytes(uint64(h.maxUploadSize))), err)
			return
		}
		// No file was chosen: nothing to do but go back to the form.
		slog.Debug("no file uploaded", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path)
		http.Redirect(w, req, "/", http.StatusSeeOther)
		return
	}
	defer file.Close()

	filename, err := validation.ValidateFilename(header.Filename)
	if errors.Is(err, validation.ErrMissingFilename) {
		http.Redirect(w, req, "/", http.StatusSeeOther)
		return
	} else if err != nil {
		h.renderError(w, req, http.StatusBadRequest, "That filename can’t be used. Please rename the file & try again.",
			fmt.Errorf("filename %q: %w", header.Filename, err))
		return
	}

	format, ok := codec.FormatFromFilename(filename)
	if !ok {
		slog.Info("unsupported file type",
			"method", req.Method,
			"path", req.URL.Path,
			"filename", filename,
			"status", http.StatusSeeOther)
		http.Redirect(w, req, "/?"+url.Values{"error": {flashUnsupported}}.Encode(), http.StatusSeeOther)
		return
	}

	originalSize, err := h.store.SaveOriginal(filename, file)
	if err != nil {
		if rmErr := h.store.RemoveOriginal(filename); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			slog.Warn("failed to remove partial upload", tint.Err(rmErr),
				"method", req.Method,
				"path", req.URL.Path,
				"filename", filename)
		}
		h.renderError(w, req, http.StatusInternalServerError, "The image could not be saved.",
			fmt.Errorf("saving %s: %w", filename, err))
		return
	}

	convertedName := codec.ConvertedName(filename)
	convertedSize, err := h.convert(filename, convertedName, format)
	if errors.Is(err, codec.ErrTooLarge) {
		h.renderError(w, req, http.StatusUnprocessableEntity,
			fmt.Sprintf("%s is too large to convert; images may be at most %d pixels on a side & %s pixels in total.",
				filename, codec.MaxDimension, humanize.Comma(codec.MaxPixels)), err)
		return
	} else if errors.Is(err, codec.ErrUndecodable) {
		h.renderError(w, req, http.StatusUnprocessableEntity,
			fmt.Sprintf("%s doesn’t look like a valid %s image.", filename, format), err)
		return
	} else if err != nil {
		h.renderError(w, req, http.StatusInternalServerError, "The image could not be converted.", err)
		return
	}

	result := Result{
		OriginalName:  filename,
		ConvertedName: convertedName,
		OriginalSize:  originalSize,
		ConvertedSize: convertedSize,
	}
	slog.Info("image compressed",
		"method", req.Method,
		"path", req.URL.Path,
		"filename", filename,
		"format", format,
		"original", humanize.IBytes(uint64(originalSize)),
		"converted", humanize.IBytes(uint64(convertedSize)),
		"status", http.StatusOK)
	ContentTempl(h.appName, "Compressed "+filename, SuccessTempl(result)).Render(req.Context(), w)
}

// convert re-encodes a stored original into the compressed directory, & returns the converted file’s size.
// The original is decoded in full before anything is written, & the converted file is replaced only
// once encoding succeeds, so a failed re-upload leaves the earlier converted file as it was.
func (h *Handler) convert(originalName, convertedName string, format codec.Format) (int64, error) {
	src, err := h.store.OpenOriginal(originalName)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", originalName, err)
	}
	defer src.Close()

	img, err := codec.Decode(format, src)
	if err != nil {
		return 0, fmt.Errorf("decoding %s: %w", originalName, err)
	}

	size, err := h.store.WriteConverted(convertedName, func(w io.Writer) error {
		return codec.EncodeWebP(w, img)
	})
	if err != nil {
		return 0, fmt.Errorf("writing %s: %w", convertedName, err)
	}
	return size, nil
}

// GET /uploads/{filename}
func (h *Handler) handleOriginal(w http.ResponseWriter, req *http.Request) {
	serveFile(w, req, h.store.Originals(), "inline")
}

// GET /compressed/{filename}
func (h *Handler) handleConverted(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "image/webp")
	serveFile(w, req, h.store.Converted(), "inline")
}

// GET /download/{filename}
func (h *Handler) handleDownload(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "image/webp")
	serveFile(w, req, h.store.Converted(), "attachment")
}

// serveFile serves one file from fsys with the given Content-Disposition.
// Anything other than a plain, existing file in fsys is reported as not found.
func serveFile(w http.ResponseWriter, req *http.Request, fsys fs.FS, disposition string) {
	requested := req.PathValue("filename")
	filename, err := validation.ValidateFilename(requested)
	if err != nil || filename != requested {
		notFound(w, req, requested, err)
		return
	}

	info, err := fs.Stat(fsys, filename)
	if err != nil || info.IsDir() {
		notFound(w, req, requested, err)
		return
	}

	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": filename}))
	http.ServeFileFS(w, req, fsys, filename)
}

func notFound(w http.ResponseWriter, req *http.Request, filename string, err error) {
	slog.Debug("file not found", tint.Err(err),
		"method", req.Method,
		"path", req.URL.Path,
		"filename", filename,
		"status", http.StatusNotFound)
	http.NotFound(w, req)
}

// renderError logs err, & renders a page explaining the failure to the user.
func (h *Handler) renderError(w http.ResponseWriter, req *http.Request, status int, message string, err error) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(req.Context(), level, "compression failed", tint.Err(err),
		"method", req.Method,
		"path", req.URL.Path,
		"status", status)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	ContentTempl(h.appName, http.StatusText(status), ErrorTempl(message)).Render(req.Context(), w)
}
