package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/ui/components"
)

// --- Messages ---

type usersLoadedMsg struct{ items []api.User }
type userCreatedMsg struct{ user api.User }
type userUpdatedMsg struct{ user api.User }
type userDeletedMsg struct{ email string }
type userRoleChangedMsg struct{ user api.User }

var errSelfAction = errors.New("use 'linkly withdraw' to remove or change your own account")

// userAdmin is what the admin-only users tab needs from the API.
type userAdmin interface {
	ListUsers(ctx context.Context) ([]api.User, error)
	CreateUser(ctx context.Context, input api.CreateUserInput) (*api.User, error)
	UpdateUser(ctx context.Context, id int64, input api.UpdateUserInput) (*api.User, error)
	DeleteUser(ctx context.Context, id int64) error
	UpdateUserRole(ctx context.Context, id int64, role string) (*api.User, error)
}

// --- Users Model ---

type UsersModel struct {
	admin   userAdmin
	self    int64
	items   []api.User
	list    *components.List
	loading bool

	confirmDelete *api.User

	// form is the create or edit dialog; editing is nil when creating.
	form    *fieldForm
	editing *api.User

	width  int
	height int
}

// NewUsersModel builds the users tab; self is the signed-in account, which
// the tab refuses to delete or demote.
func NewUsersModel(admin userAdmin, self int64) UsersModel {
	return UsersModel{
		admin: admin,
		self:  self,
		list:  components.NewList(12),
	}
}

// Load fetches the account list.
func (m UsersModel) Load() (UsersModel, tea.Cmd) {
	m.loading = true
	return m, loadUsersCmd(m.admin)
}

func (m UsersModel) Update(msg tea.Msg) (UsersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		m.loading = false
		m.items = msg.items
		emails := make([]string, len(m.items))
		for i, u := range m.items {
			emails[i] = u.Email
		}
		m.list.ReplaceItems(emails)
		return m, nil
	case userDeletedMsg, userRoleChangedMsg, userCreatedMsg, userUpdatedMsg:
		m.confirmDelete = nil
		m.form = nil
		m.editing = nil
		return m.Load()
	case errMsg:
		m.loading = false
		m.confirmDelete = nil
		if m.form != nil {
			m.form.errText = api.Message(msg.err)
		}
		return m, nil
	case tea.KeyMsg:
		if m.form != nil {
			return m.handleFormKeys(msg)
		}
		if m.confirmDelete != nil {
			switch {
			case isKey(msg, "y"):
				return m, deleteUserCmd(m.admin, *m.confirmDelete)
			case isKey(msg, "n"), isBack(msg):
				m.confirmDelete = nil
			}
			return m, nil
		}
		return m.handleListKeys(msg)
	}
	return m, nil
}

func (m UsersModel) capturing() bool {
	return m.confirmDelete != nil || m.form != nil
}

func (m UsersModel) selected() *api.User {
	idx := m.list.Selected()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}
	u := m.items[idx]
	return &u
}

func (m UsersModel) handleListKeys(msg tea.KeyMsg) (UsersModel, tea.Cmd) {
	switch {
	case isDown(msg), isKey(msg, "j"):
		m.list.Down()
	case isUp(msg), isKey(msg, "k"):
		m.list.Up()
	case isKey(msg, "r"):
		return m.Load()
	case isKey(msg, "n"):
		m.editing = nil
		m.form = newFieldForm("New user",
			formField{label: "Email", placeholder: "name@example.com", limit: 255},
			formField{label: "Name", limit: 100},
			formField{label: "Password", limit: 100, secret: true},
			formField{label: "Role", value: "user", placeholder: "user or admin", limit: 5},
		)
	case isKey(msg, "e"):
		u := m.selected()
		if u == nil {
			return m, nil
		}
		m.editing = u
		m.form = newFieldForm("Edit "+u.Email,
			formField{label: "Name", value: u.Name, limit: 100},
			formField{label: "New password", placeholder: "leave empty to keep", limit: 100, secret: true},
		)
	case isKey(msg, "d"):
		u := m.selected()
		if u == nil {
			return m, nil
		}
		if u.ID == m.self {
			return m, errCmd(errSelfAction)
		}
		m.confirmDelete = u
	case isKey(msg, "t"):
		u := m.selected()
		if u == nil {
			return m, nil
		}
		if u.ID == m.self {
			return m, errCmd(errSelfAction)
		}
		return m, setRoleCmd(m.admin, u.ID, toggledRole(u.Role))
	}
	return m, nil
}

func (m UsersModel) handleFormKeys(msg tea.KeyMsg) (UsersModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.form = nil
		m.editing = nil
		return m, nil
	case isEnter(msg):
		if m.editing != nil {
			return m.submitEdit()
		}
		return m.submitCreate()
	}
	return m, m.form.handleKey(msg)
}

func (m UsersModel) submitCreate() (UsersModel, tea.Cmd) {
	input := api.CreateUserInput{
		Email:    m.form.value(0),
		Name:     m.form.value(1),
		Password: m.form.inputs[2].Value(),
	}
	if input.Email == "" || input.Name == "" || input.Password == "" {
		m.form.errText = "Email, name and password are required."
		return m, nil
	}
	role := strings.ToUpper(m.form.value(3))
	if role == "" {
		role = api.RoleUser
	}
	if role != api.RoleUser && role != api.RoleAdmin {
		m.form.errText = "Role must be user or admin."
		return m, nil
	}
	m.form.errText = ""
	return m, createUserCmd(m.admin, input, role)
}

func (m UsersModel) submitEdit() (UsersModel, tea.Cmd) {
	input := api.UpdateUserInput{Name: m.form.value(0), Password: m.form.inputs[1].Value()}
	if input.Name == "" {
		m.form.errText = "Name is required."
		return m, nil
	}
	m.form.errText = ""
	return m, updateUserCmd(m.admin, m.editing.ID, input)
}

func toggledRole(role string) string {
	if role == api.RoleAdmin {
		return api.RoleUser
	}
	return api.RoleAdmin
}

// --- Commands ---

func loadUsersCmd(admin userAdmin) tea.Cmd {
	return func() tea.Msg {
		items, err := admin.ListUsers(context.Background())
		if err != nil {
			return errMsg{err: fmt.Errorf("load users: %w", err)}
		}
		return usersLoadedMsg{items: items}
	}
}

func createUserCmd(admin userAdmin, input api.CreateUserInput, role string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		created, err := admin.CreateUser(ctx, input)
		if err != nil {
			return errMsg{err: fmt.Errorf("create user: %w", err)}
		}
		if role == api.RoleAdmin && created.Role != api.RoleAdmin {
			if created, err = admin.UpdateUserRole(ctx, created.ID, role); err != nil {
				return errMsg{err: fmt.Errorf("user created but promotion failed: %w", err)}
			}
		}
		return userCreatedMsg{user: *created}
	}
}

func updateUserCmd(admin userAdmin, id int64, input api.UpdateUserInput) tea.Cmd {
	return func() tea.Msg {
		updated, err := admin.UpdateUser(context.Background(), id, input)
		if err != nil {
			return errMsg{err: fmt.Errorf("update user: %w", err)}
		}
		return userUpdatedMsg{user: *updated}
	}
}

func deleteUserCmd(admin userAdmin, u api.User) tea.Cmd {
	return func() tea.Msg {
		if err := admin.DeleteUser(context.Background(), u.ID); err != nil {
			return errMsg{err: fmt.Errorf("delete user: %w", err)}
		}
		return userDeletedMsg{email: u.Email}
	}
}

func setRoleCmd(admin userAdmin, id int64, role string) tea.Cmd {
	return func() tea.Msg {
		updated, err := admin.UpdateUserRole(context.Background(), id, role)
		if err != nil {
			return errMsg{err: fmt.Errorf("change role: %w", err)}
		}
		return userRoleChangedMsg{user: *updated}
	}
}

// --- View ---

func (m UsersModel) View() string {
	if m.form != nil {
		return m.form.View(m.width)
	}
	if m.confirmDelete != nil {
		body := fmt.Sprintf("Delete %s and all their bookmarks?", components.SanitizeOneLine(m.confirmDelete.Email))
		return components.Indent(components.ConfirmDialog("Delete user", body), 1)
	}

	var content string
	switch {
	case m.loading && len(m.items) == 0:
		content = MutedStyle.Render("Loading...")
	case len(m.items) == 0:
		content = MutedStyle.Render("No users.")
	default:
		width := components.BoxContentWidth(m.width)
		if width <= 0 {
			width = 80
		}
		cols := []components.TableColumn{
			{Header: "ID", Width: 6},
			{Header: "Email", Width: 30},
			{Header: "Name", Width: 20},
			{Header: "Role", Width: 8},
		}
		visible := m.list.Visible()
		rows := make([][]string, 0, len(visible))
		active := -1
		for rel := range visible {
			abs := m.list.RelToAbs(rel)
			u := m.items[abs]
			name := u.Name
			if u.ID == m.self {
				name += " (you)"
			}
			rows = append(rows, []string{fmt.Sprintf("%d", u.ID), u.Email, name, strings.ToLower(u.Role)})
			if m.list.IsSelected(abs) {
				active = len(rows) - 1
			}
		}
		content = components.TableGridWithActiveRow(cols, rows, width, active)
	}
	title := fmt.Sprintf("Users · %d", len(m.items))
	return components.Indent(components.TitledBox(title, content, m.width), 1)
}

func (m UsersModel) hints() []string {
	if m.form != nil {
		if m.editing != nil {
			return fieldFormHints("Save")
		}
		return fieldFormHints("Create")
	}
	if m.confirmDelete != nil {
		return []string{components.Hint("y", "Delete"), components.Hint("n", "Cancel")}
	}
	return []string{
		components.Hint("↑/↓", "Scroll"),
		components.Hint("n", "New"),
		components.Hint("e", "Edit"),
		components.Hint("t", "Toggle admin"),
		components.Hint("d", "Delete"),
		components.Hint("r", "Refresh"),
	}
}
