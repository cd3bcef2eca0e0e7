// internal/app/features/pages/edit.go
package pages

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	pagestore "github.com/dalemusser/hostpro/internal/app/store/pages"
	"github.com/dalemusser/hostpro/internal/app/system/apierr"
	"github.com/dalemusser/hostpro/internal/app/system/apiutil"
	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/dalemusser/hostpro/internal/app/system/htmlsanitize"
	"github.com/dalemusser/hostpro/internal/app/system/jsonutil"
	"github.com/dalemusser/hostpro/internal/app/system/normalize"
	"github.com/dalemusser/hostpro/internal/app/system/slug"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	msgSlugTaken = "Page with this slug already exists"
	msgEmptySlug = "Title must contain at least one letter or digit"
)

// checkSlug derives the slug for title and fails if it is empty or already
// used on site by a page other than exclude. The unique index still guards
// the gap between this check and the write.
func (h *Handler) checkSlug(ctx context.Context, title, site string, exclude *primitive.ObjectID) (string, error) {
	s := slug.Make(title)
	if s == "" {
		return "", apierr.Invalid(msgEmptySlug)
	}
	taken, err := h.Pages.SlugExists(ctx, site, s, exclude)
	if err != nil {
		return "", err
	}
	if taken {
		return "", apierr.Conflict(msgSlugTaken)
	}
	return s, nil
}

func storeErr(err error) error {
	if errors.Is(err, pagestore.ErrDuplicateSlug) {
		return apierr.Conflict(msgSlugTaken)
	}
	return apiutil.NotFound(err, "Page not found")
}

// HandleCreate handles POST /.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentPrincipal(r)

	var req createRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	if err := apiutil.Validate(req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	title := strings.TrimSpace(req.Title)
	site := strings.TrimSpace(req.Site)
	switch {
	case h.Pages.Site() != "":
		site = h.Pages.Site()
	case site == "":
		site = models.DefaultPageSite
	}
	status := models.PageDraft
	if req.Status != "" {
		status = models.PageStatus(req.Status)
	}
	metaTitle := strings.TrimSpace(req.MetaTitle)
	if metaTitle == "" {
		metaTitle = title
	}
	content := htmlsanitize.Sanitize(req.Content)
	excerpt := strings.TrimSpace(req.Excerpt)
	if excerpt == "" {
		excerpt = htmlsanitize.Excerpt(content)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "page create")
	defer cancel()

	s, err := h.checkSlug(ctx, title, site, nil)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	author := actor.UserID
	page, err := h.Pages.Create(ctx, models.Page{
		Title:           title,
		Slug:            s,
		Content:         content,
		Excerpt:         excerpt,
		Status:          status,
		Site:            site,
		AuthorID:        &author,
		MetaTitle:       metaTitle,
		MetaDescription: strings.TrimSpace(req.MetaDescription),
		Tags:            normalize.List(req.Tags),
	})
	if err != nil {
		uierrors.Write(w, r, h.Log, storeErr(err))
		return
	}
	v, err := h.view(ctx, page)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	h.Log.Info("page created", zap.String("page_id", page.ID.Hex()), zap.String("site", site), zap.String("slug", s))
	apiutil.WriteItem(w, http.StatusCreated, "Page created successfully", "page", v)
}

// HandleUpdate handles PUT /{id}. A new title regenerates the slug; moving
// into published stamps publishedAt.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "page")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	var req updateRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	if err := apiutil.Validate(req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "page update")
	defer cancel()

	current, err := h.Pages.GetByID(ctx, id)
	if err != nil {
		uierrors.Write(w, r, h.Log, storeErr(err))
		return
	}

	upd := pagestore.Update{
		Excerpt:         apiutil.Trim(req.Excerpt),
		MetaTitle:       apiutil.Trim(req.MetaTitle),
		MetaDescription: apiutil.Trim(req.MetaDescription),
	}
	if req.Tags != nil {
		upd.Tags = normalize.List(req.Tags)
	}
	if req.Content != nil {
		c := htmlsanitize.Sanitize(*req.Content)
		upd.Content = &c
	}

	site := current.Site
	if req.Site != nil && h.Pages.Site() == "" {
		site = strings.TrimSpace(*req.Site)
		upd.Site = &site
	}
	if req.Title != nil || site != current.Site {
		title := current.Title
		if req.Title != nil {
			title = strings.TrimSpace(*req.Title)
			upd.Title = &title
		}
		s, err := h.checkSlug(ctx, title, site, &current.ID)
		if err != nil {
			uierrors.Write(w, r, h.Log, err)
			return
		}
		upd.Slug = &s
	}
	if req.Status != nil {
		st := models.PageStatus(*req.Status)
		upd.Status = &st
		if st == models.PagePublished && current.Status != models.PagePublished {
			now := time.Now().UTC()
			upd.PublishedAt = &now
		}
	}

	page, err := h.Pages.Update(ctx, id, upd)
	if err != nil {
		uierrors.Write(w, r, h.Log, storeErr(err))
		return
	}
	v, err := h.view(ctx, page)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "Page updated successfully", "page", v)
}

// HandleStatus handles PATCH /{id}/status.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "page")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	var req statusRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	if err := apiutil.Validate(req); err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "page status")
	defer cancel()

	current, err := h.Pages.GetByID(ctx, id)
	if err != nil {
		uierrors.Write(w, r, h.Log, storeErr(err))
		return
	}
	st := models.PageStatus(req.Status)
	upd := pagestore.Update{Status: &st}
	if st == models.PagePublished && current.Status != models.PagePublished {
		now := time.Now().UTC()
		upd.PublishedAt = &now
	}

	page, err := h.Pages.Update(ctx, id, upd)
	if err != nil {
		uierrors.Write(w, r, h.Log, storeErr(err))
		return
	}
	v, err := h.view(ctx, page)
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}
	apiutil.WriteItem(w, http.StatusOK, "Page status updated", "page", v)
}

// HandleDelete handles DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r, "page")
	if err != nil {
		uierrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "page delete")
	defer cancel()

	if err := h.Pages.Delete(ctx, id); err != nil {
		uierrors.Write(w, r, h.Log, storeErr(err))
		return
	}
	jsonutil.Write(w, http.StatusOK, jsonutil.Message{Message: "Page deleted successfully"})
}
