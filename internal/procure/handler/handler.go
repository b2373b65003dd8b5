package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"procure-service/internal/config"
	"procure-service/internal/draft"
	"procure-service/internal/fileio"
	"procure-service/internal/middleware"
	"procure-service/internal/procure/model"
	procSvc "procure-service/internal/procure/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Compare возвращает http.HandlerFunc для r.Post("/compare", ...).
// store может быть nil: тогда черновик списка закупки не используется.
func Compare(cfg config.Config, logger zerolog.Logger, store *draft.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := middleware.RequestLogger(r, logger)

		defer r.Body.Close()
		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, err.Error(), "too_large")
				return
			}
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error(), "bad_request")
			return
		}

		cols := columnsFrom(r, cfg)
		srcs, err := readSuppliers(r, cols.HeaderRow)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "input_file")
			return
		}

		text, fromForm := formValue(r, "procurement_list")
		if !fromForm && store != nil {
			text = store.Get()
		}

		req := procSvc.Request{
			Suppliers:  srcs,
			Columns:    cols,
			DemandText: text,
			Options: model.Options{
				SuggestThreshold: toFloat(r.FormValue("suggest_threshold"), cfg.SuggestThreshold),
				MaxSuggestions:   atoi(r.FormValue("max_suggestions"), cfg.MaxSuggestions),
			},
		}
		res, err := procSvc.Analyze(r.Context(), req, log)
		if err != nil {
			kind := procSvc.Kind(err)
			log.Warn().Err(err).Str("kind", kind).Msg("compare failed")
			writeError(w, statusFor(kind), err.Error(), kind)
			return
		}

		// черновик сохраняем только после успешного разбора
		if fromForm && store != nil {
			if err := store.Set(text); err != nil {
				log.Warn().Err(err).Msg("draft not saved")
			}
		}

		if r.FormValue("format") == "xlsx" {
			var buf bytes.Buffer
			if err := fileio.WritePlanXLSX(&buf, res.Plan); err != nil {
				log.Error().Err(err).Msg("export xlsx")
				writeError(w, http.StatusInternalServerError, "export failed", "internal")
				return
			}
			w.Header().Set("Content-Type", xlsxContentType)
			w.Header().Set("Content-Disposition",
				fmt.Sprintf(`attachment; filename="%s"`, fileio.PlanFileName(time.Now())))
			w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
			if _, err := buf.WriteTo(w); err != nil {
				log.Error().Err(err).Msg("write xlsx")
			}
		} else {
			writeJSON(w, http.StatusOK, res, log)
		}

		log.Info().
			Int("suppliers", len(srcs)).
			Int("lines", len(res.Plan.Lines)).
			Int("unmatched", len(res.Plan.Unmatched)).
			Dur("elapsed", time.Since(start)).
			Msg("compare done")
	}
}

type draftBody struct {
	ProcurementList string `json:"procurement_list"`
}

// GetDraft отдаёт сохранённый список закупки и текст-пример для пустого поля.
func GetDraft(store *draft.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"procurement_list": store.Get(),
			"example":          procSvc.ExampleText,
		}, zerolog.Nop())
	}
}

// PutDraft replaces the saved procurement list with {"procurement_list": "..."}.
func PutDraft(store *draft.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.RequestLogger(r, logger)
		defer r.Body.Close()

		var body draftBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error(), "bad_request")
			return
		}
		if err := store.Set(body.ProcurementList); err != nil {
			log.Error().Err(err).Msg("draft save")
			writeError(w, http.StatusInternalServerError, "draft not saved", "internal")
			return
		}
		writeJSON(w, http.StatusOK, draftBody{ProcurementList: store.Get()}, log)
	}
}

// readSuppliers собирает supplier_file_N / supplier_name_N в порядке N.
// Пропуски в нумерации допустимы, количество проверяет сервис.
func readSuppliers(r *http.Request, headerRow int) ([]model.SupplierSource, error) {
	var srcs []model.SupplierSource
	for n := 1; n <= model.MaxSuppliers; n++ {
		file, hdr, err := r.FormFile(fmt.Sprintf("supplier_file_%d", n))
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("supplier_file_%d: %w", n, err)
		}
		tbl, err := fileio.ReadTable(file, hdr.Filename, headerRow)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("supplier_file_%d: %w", n, err)
		}
		name := strings.TrimSpace(r.FormValue(fmt.Sprintf("supplier_name_%d", n)))
		if name == "" {
			name = procSvc.SupplierNameFromFile(hdr.Filename)
		}
		srcs = append(srcs, model.SupplierSource{
			Name:  name,
			File:  hdr.Filename,
			Table: tbl,
		})
	}
	return srcs, nil
}

func columnsFrom(r *http.Request, cfg config.Config) model.Columns {
	cols := model.Columns{
		Product:   cfg.ProductCol,
		Spec:      cfg.SpecCol,
		Price:     cfg.PriceCol,
		HeaderRow: atoi(r.FormValue("header_row"), cfg.HeaderRow),
	}
	if v, ok := formValue(r, "product_col"); ok && strings.TrimSpace(v) != "" {
		cols.Product = strings.TrimSpace(v)
	}
	// пустой spec_col: «без спецификации»
	if v, ok := formValue(r, "spec_col"); ok {
		cols.Spec = strings.TrimSpace(v)
	}
	if v, ok := formValue(r, "price_col"); ok && strings.TrimSpace(v) != "" {
		cols.Price = strings.TrimSpace(v)
	}
	if cols.HeaderRow < 1 {
		cols.HeaderRow = 1
	}
	return cols
}

func statusFor(kind string) int {
	switch kind {
	case "column_not_found":
		return http.StatusUnprocessableEntity
	case "input_format", "empty_input", "suppliers":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
