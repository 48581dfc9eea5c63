package models

type UserSummary struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
}

func (u UserSummary) Validate() error {
	if u.UserID <= 0 {
		return schemaErr("user_id %d", u.UserID)
	}
	return nil
}

type PublicUser struct {
	UserID    int    `json:"user_id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

func (u PublicUser) Validate() error {
	if u.UserID <= 0 {
		return schemaErr("user_id %d", u.UserID)
	}
	return nil
}

func (u PublicUser) FullName() string {
	return u.Firstname + " " + u.Lastname
}
