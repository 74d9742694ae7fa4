package user

import (
	"context"
	"errors"
	"strings"

	domain "impulso-backend/internal/domain/user"
	"impulso-backend/internal/form/orchestrator"
	"impulso-backend/internal/form/schema"
	"impulso-backend/internal/listview"
	"impulso-backend/pkg/id"
)

var ErrUnknownField = errors.New("campo desconocido")

// CreateInput carries the account form. The optional profile fields arrive
// blank when the form leaves them empty and are stored as NULL.
type CreateInput struct {
	Nombres         string `json:"nombres"`
	Apellidos       string `json:"apellidos"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Documento       string `json:"documento"`
	Password        string `json:"password"`
	Celular         string `json:"celular"`
	Rol             string `json:"rol"`
	Estado          string `json:"estado"`
	Direccion       string `json:"direccion"`
	Ciudad          string `json:"ciudad"`
	Departamento    string `json:"departamento"`
	Profesion       string `json:"profesion"`
	NivelEducativo  string `json:"niveleducativo"`
	FechaNacimiento string `json:"fechanacimiento"`
}

func (in CreateInput) record() schema.Record {
	return schema.Record{
		"nombres":         in.Nombres,
		"apellidos":       in.Apellidos,
		"username":        in.Username,
		"email":           in.Email,
		"documento":       in.Documento,
		"password":        in.Password,
		"celular":         in.Celular,
		"rol":             in.Rol,
		"estado":          in.Estado,
		"direccion":       in.Direccion,
		"ciudad":          in.Ciudad,
		"departamento":    in.Departamento,
		"profesion":       in.Profesion,
		"niveleducativo":  in.NivelEducativo,
		"fechanacimiento": in.FechaNacimiento,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Criteria filters the user list; blank fields match everything.
type Criteria struct {
	Nombre   string `json:"nombre" query:"nombre"`
	Username string `json:"username" query:"username"`
	Rol      string `json:"rol" query:"rol"`
}

// Matches is the list predicate: case-insensitive substring on the names,
// substring on username, exact match on role.
func Matches(u domain.User, c Criteria) bool {
	if c.Nombre != "" {
		names := strings.ToLower(u.Nombres + " " + u.Apellidos)
		if !strings.Contains(names, strings.ToLower(c.Nombre)) {
			return false
		}
	}
	if c.Username != "" && !strings.Contains(u.Username, c.Username) {
		return false
	}
	if c.Rol != "" {
		rol, ok := domain.NormalizeRole(c.Rol)
		if !ok || u.Rol != rol {
			return false
		}
	}
	return true
}

// Page is one list screen's worth of users.
type Page struct {
	Items     []domain.User `json:"items"`
	PageCount int           `json:"pageCount"`
	PageIndex int           `json:"pageIndex"`
	Total     int           `json:"total"`
}

type Usecase struct {
	repo domain.Repository
}

func NewUsecase(repo domain.Repository) *Usecase {
	return &Usecase{repo: repo}
}

// Create validates the account form, normalizes the role and enforces
// username uniqueness before writing.
func (uc *Usecase) Create(ctx context.Context, in CreateInput) (*domain.User, error) {
	if in.Estado == "" {
		in.Estado = "Activo"
	}
	f := orchestrator.New(
		[]orchestrator.Section{{Name: "Datos de la cuenta", Fields: schema.User.FieldNames(), Expanded: true}},
		orchestrator.Aggregate{Schema: schema.User, Record: in.record()},
	)

	var u *domain.User
	err := f.Submit(ctx, func(ctx context.Context) error {
		rol, ok := domain.NormalizeRole(in.Rol)
		if !ok {
			return &schema.ValidationError{Errors: []schema.FieldError{
				{Field: "rol", Message: "El rol debe ser administrador, asesor o beneficiario"},
			}}
		}
		if _, err := uc.repo.GetByUsername(ctx, in.Username); err == nil {
			return domain.ErrUsernameTaken
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		u = &domain.User{
			UserID:          id.NewID32(),
			Nombres:         in.Nombres,
			Apellidos:       in.Apellidos,
			Username:        in.Username,
			Email:           in.Email,
			Documento:       in.Documento,
			Password:        in.Password,
			Celular:         in.Celular,
			Rol:             rol,
			Estado:          in.Estado,
			Direccion:       optional(in.Direccion),
			Ciudad:          optional(in.Ciudad),
			Departamento:    optional(in.Departamento),
			Profesion:       optional(in.Profesion),
			NivelEducativo:  optional(in.NivelEducativo),
			FechaNacimiento: optional(in.FechaNacimiento),
		}
		return uc.repo.Create(ctx, u)
	})
	if errors.Is(err, orchestrator.ErrValidation) {
		return nil, &schema.ValidationError{Errors: f.Errors()}
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *Usecase) Get(ctx context.Context, userID string) (*domain.User, error) {
	return uc.repo.GetByPublicID(ctx, userID)
}

// List filters and paginates the full user list in memory.
func (uc *Usecase) List(ctx context.Context, crit Criteria, pageSize, pageIndex int) (*Page, error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := listview.Filter(all, crit, Matches)
	items, pageCount := listview.Paginate(filtered, pageSize, pageIndex)
	if pageIndex >= pageCount {
		pageIndex = 0
		items, pageCount = listview.Paginate(filtered, pageSize, pageIndex)
	}
	return &Page{Items: items, PageCount: pageCount, PageIndex: pageIndex, Total: len(filtered)}, nil
}

// UpdateField edits one field on a persisted user with single-field
// validation. Role values are normalized; username changes re-check
// uniqueness.
func (uc *Usecase) UpdateField(ctx context.Context, userID, name string, value any) (*domain.User, error) {
	u, err := uc.repo.GetByPublicID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !schema.User.Has(name) {
		return nil, ErrUnknownField
	}
	s, _ := value.(string)

	if name == "rol" {
		rol, ok := domain.NormalizeRole(s)
		if !ok {
			return nil, &schema.ValidationError{Errors: []schema.FieldError{
				{Field: "rol", Message: "El rol debe ser administrador, asesor o beneficiario"},
			}}
		}
		u.Rol = rol
		return u, uc.repo.Save(ctx, u)
	}

	rec := recordFromEntity(u)
	rec[name] = s
	if fe := schema.User.ValidateField(rec, name); fe != nil {
		return nil, &schema.ValidationError{Errors: []schema.FieldError{*fe}}
	}

	if name == "username" && s != u.Username {
		if _, err := uc.repo.GetByUsername(ctx, s); err == nil {
			return nil, domain.ErrUsernameTaken
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	applyField(u, name, s)
	return u, uc.repo.Save(ctx, u)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func recordFromEntity(u *domain.User) schema.Record {
	return schema.Record{
		"nombres":         u.Nombres,
		"apellidos":       u.Apellidos,
		"username":        u.Username,
		"email":           u.Email,
		"documento":       u.Documento,
		"password":        u.Password,
		"celular":         u.Celular,
		"rol":             string(u.Rol),
		"estado":          u.Estado,
		"direccion":       deref(u.Direccion),
		"ciudad":          deref(u.Ciudad),
		"departamento":    deref(u.Departamento),
		"profesion":       deref(u.Profesion),
		"niveleducativo":  deref(u.NivelEducativo),
		"fechanacimiento": deref(u.FechaNacimiento),
	}
}

func applyField(u *domain.User, name, s string) {
	switch name {
	case "nombres":
		u.Nombres = s
	case "apellidos":
		u.Apellidos = s
	case "username":
		u.Username = s
	case "email":
		u.Email = s
	case "documento":
		u.Documento = s
	case "password":
		u.Password = s
	case "celular":
		u.Celular = s
	case "estado":
		u.Estado = s
	case "direccion":
		u.Direccion = optional(s)
	case "ciudad":
		u.Ciudad = optional(s)
	case "departamento":
		u.Departamento = optional(s)
	case "profesion":
		u.Profesion = optional(s)
	case "niveleducativo":
		u.NivelEducativo = optional(s)
	case "fechanacimiento":
		u.FechaNacimiento = optional(s)
	}
}
