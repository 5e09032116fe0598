// Package models holds the GORM persistence models. Each model maps one
// table and converts to and from its domain aggregate with ToDomain and
// FromDomain; domain packages never see gorm tags.
package models
