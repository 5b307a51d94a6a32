package org

import "github.com/dmecc/volunteerhub/core"

type Region struct {
	ID           int    `json:"id"`
	Country      string `json:"country"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type Program struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	RegionID int    `json:"region_id" db:"region_id"`
}

type School struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
	RegionID     int    `json:"region_id" db:"region_id"`
}

type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ProgramID int    `json:"program_id" db:"program_id"`
}

type Trait struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TeamMembership links a user to a team under a given role.
type TeamMembership struct {
	UserID int `json:"user_id" validate:"required"`
	TeamID int `json:"team_id" validate:"required"`
	RoleID int `json:"role_id" validate:"required"`
}

// UserTraitAssociation links a user to a trait with an occurrence count.
type UserTraitAssociation struct {
	UserID  int `json:"user_id" validate:"required"`
	TraitID int `json:"trait_id" validate:"required"`
	Count   int `json:"count"`
}

// NewRegion contains information needed to create a new Region.
type NewRegion struct {
	Country      string `json:"country" validate:"required"`
	Name         string `json:"name" validate:"required,min=8"`
	Abbreviation string `json:"abbreviation" validate:"required,max=7"`
}

func (nr *NewRegion) Clean() {
	nr.Country = core.CleanString(nr.Country)
	nr.Name = core.CleanString(nr.Name)
	nr.Abbreviation = core.CleanString(nr.Abbreviation)
}

type NewProgram struct {
	Name     string `json:"name" validate:"required,min=3"`
	RegionID int    `json:"region_id" validate:"required"`
}

func (np *NewProgram) Clean() {
	np.Name = core.CleanString(np.Name)
}

type NewSchool struct {
	Abbreviation string `json:"abbreviation" validate:"required,max=5"`
	Name         string `json:"name" validate:"required,min=6"`
	RegionID     int    `json:"region_id" validate:"required"`
}

func (ns *NewSchool) Clean() {
	ns.Abbreviation = core.CleanString(ns.Abbreviation)
	ns.Name = core.CleanString(ns.Name)
}

type NewTeam struct {
	Name      string `json:"name" validate:"required,min=6"`
	ProgramID int    `json:"program_id" validate:"required"`
}

func (nt *NewTeam) Clean() {
	nt.Name = core.CleanString(nt.Name)
}

type NewTrait struct {
	Name string `json:"name" validate:"required,min=2"`
}

func (nt *NewTrait) Clean() {
	nt.Name = core.CleanString(nt.Name)
}
