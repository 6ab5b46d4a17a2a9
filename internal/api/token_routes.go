package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kjannette/tokenboard-backend/internal/ethaddr"
	"github.com/kjannette/tokenboard-backend/internal/models"
	"github.com/kjannette/tokenboard-backend/internal/repository"
)

// handleCreateToken accepts a multipart form with the token details and an
// optional image file. When a file is supplied the upload must resolve
// before the row is written: an upload failure fails the whole request and
// no token is created.
func (s *Server) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Error saving token details",
			"error":   err.Error(),
		})
		return
	}

	tokenAddress := r.FormValue("tokenAddress")
	if tokenAddress != "" && !ethaddr.IsAddress(tokenAddress) {
		fmt.Printf("[TOKEN] Warning: tokenAddress %q is not a valid hex address\n", tokenAddress)
	}

	var imageURL *string
	if r.MultipartForm != nil && len(r.MultipartForm.File["file"]) > 0 {
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"message": "Error saving token details",
				"error":   err.Error(),
			})
			return
		}
		defer file.Close()

		buf, err := io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"message": "Error saving token details",
				"error":   err.Error(),
			})
			return
		}

		result, err := s.uploader.Upload(r.Context(), buf, header.Filename)
		if err != nil {
			fmt.Printf("[TOKEN] Error uploading image: %v\n", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"message": "Error saving token details",
				"error":   err.Error(),
			})
			return
		}
		imageURL = &result.SecureURL
	}

	token := &models.Token{
		TokenAddress: tokenAddress,
		Name:         r.FormValue("name"),
		Symbol:       r.FormValue("symbol"),
		Twitter:      optional(r.FormValue("twitter")),
		Telegram:     optional(r.FormValue("telegram")),
		Website:      optional(r.FormValue("website")),
		ImageURL:     imageURL,
	}

	created, err := s.tokenRepo.Insert(r.Context(), token)
	if err != nil {
		fmt.Printf("[TOKEN] Error saving token details: %v\n", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Error saving token details",
			"error":   err.Error(),
		})
		return
	}

	if s.notify != nil && s.notify.Enabled() {
		go s.notify.Send(fmt.Sprintf("New token listed: %s (%s) at %s",
			created.Name, created.Symbol, created.TokenAddress))
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Token details saved successfully",
		"data":    created,
	})
}

func (s *Server) handleListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.tokenRepo.GetAll(r.Context())
	if err != nil {
		fmt.Printf("[TOKEN] Error retrieving tokens: %v\n", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Error retrieving tokens",
			"error":   err.Error(),
		})
		return
	}
	if tokens == nil {
		tokens = []models.Token{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Tokens retrieved successfully",
		"data":    tokens,
	})
}

func (s *Server) handleTokenByAddress(w http.ResponseWriter, r *http.Request) {
	tokenAddress := r.PathValue("tokenAddress")

	token, err := s.tokenRepo.FindByAddress(r.Context(), tokenAddress)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Token not found"})
		return
	}
	if err != nil {
		fmt.Printf("[TOKEN] Error retrieving token: %v\n", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Error retrieving token",
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Token retrieved successfully",
		"data":    token,
	})
}

// optional maps an empty form value to NULL rather than an empty string.
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
