//go:build statum

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eboody/statum"
)

// ArticleState is where an article is in the editorial workflow.
//
//statum:state derive=Stringer,JSON
type ArticleState interface {
	Draft()
	InReview(Review)
	Published(time.Time)
}

type Review struct {
	Reviewer string `json:"reviewer" yaml:"reviewer"`
}

// Article is an article moving through the editorial workflow.
//
//statum:machine derive=Stringer,JSON
type Article[ArticleState any] struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Submit asks a reviewer to look at a draft.
//
//statum:transition
func Submit(a Article[Draft], reviewer string) Article[InReview] {
	return ArticleToInReview(a, Review{Reviewer: reviewer})
}

// Approve publishes a reviewed article. Reviewers cannot approve their own
// articles.
//
//statum:transition
func Approve(a Article[InReview], approver string, at time.Time) (Article[Published], error) {
	if a.State().Data().Reviewer != approver {
		return Article[Published]{}, fmt.Errorf("%s is not the reviewer of %q", approver, a.Title)
	}
	return ArticleToPublished(a, at), nil
}

// Reject sends an article back to its author.
//
//statum:transition
func Reject(a Article[InReview]) Article[Draft] {
	return ArticleToDraft(a)
}

// Row is an article as stored.
//
//statum:validators Article
type Row struct {
	Status      string     `yaml:"status"`
	Reviewer    string     `yaml:"reviewer"`
	PublishedAt *time.Time `yaml:"published_at"`
}

func (r Row) IsDraft() error {
	if r.Status != "draft" {
		return errors.New("not a draft")
	}
	return nil
}

func (r Row) IsInReview() (Review, error) {
	if r.Status != "review" || r.Reviewer == "" {
		return Review{}, errors.New("not in review")
	}
	return Review{Reviewer: r.Reviewer}, nil
}

// IsPublished could ask a search index whether the article is live, so it
// takes a context.
func (r Row) IsPublished(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	if r.Status != "published" || r.PublishedAt == nil {
		return time.Time{}, errors.New("not published")
	}
	return *r.PublishedAt, nil
}

const rows = `
- status: draft
- status: review
  reviewer: ada
- status: published
  published_at: 2024-05-01T09:00:00Z
- status: archived
`

func main() {
	ctx := context.Background()

	// Build an article in its first state and move it through the workflow.
	draft := NewArticleDraft().ID(1).Title("Typestate in Go").Build()
	review := Submit(draft, "ada")
	fmt.Println(review)

	if _, err := Approve(review, "bob", time.Now()); err != nil {
		fmt.Println("approve:", err)
	}
	published, err := Approve(review, "ada", time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		panic(err)
	}
	fmt.Println(published)

	// Approve(draft, "ada", time.Now()) would not compile: only an article
	// in review can be published.

	// Rehydrate stored articles into machines.
	var stored []Row
	if err := yaml.Unmarshal([]byte(rows), &stored); err != nil {
		panic(err)
	}
	for i, res := range ArticlesFromRow(ctx, stored, 100, "Stored") {
		article, err := res.Get()
		if errors.Is(err, statum.ErrInvalidState) {
			fmt.Printf("row %d: %v\n", i, err)
			continue
		}

		switch a := article.(type) {
		case Article[Draft]:
			fmt.Printf("row %d: draft, submitting: %v\n", i, Submit(a, "ada"))
		case Article[InReview]:
			fmt.Printf("row %d: in review by %s\n", i, a.State().Data().Reviewer)
		case Article[Published]:
			fmt.Printf("row %d: published at %s\n", i, a.State().Data().Format(time.DateOnly))
		}
	}
}
