package handler

import (
	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

// --- Request → Service input ---

func toAccountInput(req accountRequest) ports.AccountInput {
	return ports.AccountInput{
		Name:     req.AccountName,
		Email:    req.AccountEmail,
		Password: req.AccountPassword,
		RoleCode: req.AccountRole,
	}
}

func toCategoryInput(req categoryRequest) ports.CategoryInput {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return ports.CategoryInput{
		Name:        req.CategoryName,
		Description: req.CategoryDescription,
		ParentID:    req.ParentCategoryID,
		IsActive:    active,
	}
}

func toTagInput(req tagRequest) ports.TagInput {
	return ports.TagInput{Name: req.TagName, Note: req.Note}
}

func toArticleInput(req articleRequest) ports.ArticleInput {
	in := ports.ArticleInput{
		Title:      req.NewsTitle,
		Headline:   req.Headline,
		Content:    req.NewsContent,
		Source:     req.NewsSource,
		CategoryID: req.CategoryID,
		TagIDs:     req.TagIDs,
	}
	if req.NewsStatus != nil {
		s := domain.NewsStatus(*req.NewsStatus)
		in.Status = &s
	}
	return in
}

// --- Service result → HTTP response ---

func toAccountResponse(a domain.Account, labels domain.RoleLabels) accountResponse {
	return accountResponse{
		AccountID:    a.ID,
		AccountName:  a.Name,
		AccountEmail: a.Email,
		AccountRole:  a.Role.Code(),
		RoleLabel:    labels.Label(a.Role),
	}
}

func toAccountResponses(accounts []domain.Account, labels domain.RoleLabels) []accountResponse {
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a, labels))
	}
	return out
}

func toCategoryResponse(c domain.Category) categoryResponse {
	return categoryResponse{
		CategoryID:          c.ID,
		CategoryName:        c.Name,
		CategoryDescription: c.Description,
		ParentCategoryID:    c.ParentID,
		IsActive:            c.IsActive,
	}
}

func toCategoryResponses(categories []domain.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	return out
}

func toTagResponse(t domain.Tag) tagResponse {
	return tagResponse{TagID: t.ID, TagName: t.Name, Note: t.Note}
}

func toTagResponses(tags []domain.Tag) []tagResponse {
	out := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, toTagResponse(t))
	}
	return out
}

func toArticleResponse(a domain.NewsArticle, labels domain.RoleLabels) articleResponse {
	resp := articleResponse{
		NewsArticleID: a.ID,
		NewsTitle:     a.Title,
		Headline:      a.Headline,
		NewsContent:   a.Content,
		NewsSource:    a.Source,
		NewsStatus:    int(a.Status),
		CategoryID:    a.CategoryID,
		CreatedByID:   a.CreatedByID,
		UpdatedByID:   a.UpdatedByID,
		CreatedDate:   a.CreatedDate.UTC(),
		ModifiedDate:  a.ModifiedDate.UTC(),
		Tags:          toTagResponses(a.Tags),
	}
	if a.Category != nil {
		c := toCategoryResponse(*a.Category)
		resp.Category = &c
	}
	if a.CreatedBy != nil {
		acc := toAccountResponse(*a.CreatedBy, labels)
		resp.CreatedBy = &acc
	}
	return resp
}

func toArticleResponses(articles []domain.NewsArticle, labels domain.RoleLabels) []articleResponse {
	out := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, toArticleResponse(a, labels))
	}
	return out
}

func toReportResponse(r *domain.Report, labels domain.RoleLabels) reportResponse {
	resp := reportResponse{
		StartDate:     r.Start.UTC(),
		EndDate:       r.End.UTC(),
		TotalArticles: r.TotalArticles,
		Articles:      toArticleResponses(r.Articles, labels),
		ByCategory:    make([]categoryCountResponse, 0, len(r.ByCategory)),
		ByStaff:       make([]staffCountResponse, 0, len(r.ByStaff)),
	}
	for _, c := range r.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryCountResponse{CategoryName: c.CategoryName, Count: c.Count})
	}
	for _, s := range r.ByStaff {
		resp.ByStaff = append(resp.ByStaff, staffCountResponse{StaffName: s.StaffName, Count: s.Count})
	}
	return resp
}
