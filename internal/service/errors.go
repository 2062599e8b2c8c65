package service

import "errors"

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrRelationNotFound = errors.New("relation not found")
	ErrEmptyPage        = errors.New("no posts found")
	ErrTitleTaken       = errors.New("title already in use")
	ErrCategoryExists   = errors.New("category already exists")
	ErrTagExists        = errors.New("tag already exists")
	ErrCategoryInUse    = errors.New("category still referenced by posts")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
)
