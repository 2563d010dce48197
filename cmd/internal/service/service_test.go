package service

import (
	"sharednotes/cmd/internal/contract"
	"sharednotes/cmd/internal/domain/policy"
	"sharednotes/cmd/internal/domain/sqlite"
	"sharednotes/cmd/internal/domain/sqlite/repository"
	"sharednotes/cmd/internal/utils"
	"sharednotes/cmd/internal/utils/apierror"
	"sharednotes/cmd/internal/utils/uid"
	"sharednotes/cmd/internal/utils/validators"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	users  *UserService
	notes  *DefaultNoteService
	tokens *utils.TokenService
	clock  int64
}

func setup(t *testing.T) *fixture {
	t.Helper()
	uid.Init(1)

	db, err := sqlite.Init(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close(db) })

	validate := validators.New()
	tokens := utils.NewTokenService([]byte("test-secret"), utils.TokenTTL)
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	f := &fixture{
		users:  NewUserService(userRepo, tokens, validate),
		notes:  NewNoteService(noteRepo, userRepo, policy.NewNotePolicy(), validate),
		tokens: tokens,
		clock:  1_700_000_000_000,
	}

	// Every call moves the clock forward so update times are strictly ordered
	tick := func() int64 {
		f.clock += 1000
		return f.clock
	}
	f.users.now = tick
	f.notes.now = tick
	return f
}

func (f *fixture) signup(t *testing.T, name string) int64 {
	t.Helper()
	resp, apierr := f.users.Signup(&contract.SignupRequest{
		Username: name,
		Email:    name + "@example.com",
		Password: "password123",
	})
	require.Nil(t, apierr)
	return resp.User.ID
}

func (f *fixture) create(t *testing.T, actorID int64, title, content string, tags ...string) *contract.NoteResponse {
	t.Helper()
	note, apierr := f.notes.CreateNote(actorID, &contract.NoteRequest{Title: title, Content: content, Tags: tags})
	require.Nil(t, apierr)
	return note
}

func ptr(s string) *string { return &s }

func noteIDs(notes []*contract.NoteResponse) []int64 {
	out := make([]int64, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

// ---- users ----

func TestSignup(t *testing.T) {
	f := setup(t)

	resp, apierr := f.users.Signup(&contract.SignupRequest{
		Username: "  alice ",
		Email:    "Alice@Example.com",
		Password: " password123",
	})
	require.Nil(t, apierr)
	assert.Equal(t, "User created successfully", resp.Message)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice@example.com", resp.User.Email)

	data, err := f.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, data.UserID)

	// Passwords are never trimmed
	_, apierr = f.users.Login(&contract.LoginRequest{Email: "alice@example.com", Password: "password123"})
	assert.Equal(t, apierror.InvalidLoginError, apierr)
	_, apierr = f.users.Login(&contract.LoginRequest{Email: "alice@example.com", Password: " password123"})
	assert.Nil(t, apierr)
}

func TestSignup_Duplicate(t *testing.T) {
	f := setup(t)
	f.signup(t, "alice")

	_, apierr := f.users.Signup(&contract.SignupRequest{Username: "alice", Email: "new@example.com", Password: "password123"})
	assert.Equal(t, apierror.DuplicateIdentityError, apierr)

	_, apierr = f.users.Signup(&contract.SignupRequest{Username: "alice2", Email: "ALICE@example.com", Password: "password123"})
	assert.Equal(t, apierror.DuplicateIdentityError, apierr)
}

func TestSignup_Validation(t *testing.T) {
	f := setup(t)

	tests := map[string]*contract.SignupRequest{
		"short username":  {Username: "al", Email: "al@example.com", Password: "password123"},
		"spaced username": {Username: "al ice", Email: "al@example.com", Password: "password123"},
		"bad email":       {Username: "alice", Email: "not-an-email", Password: "password123"},
		"short password":  {Username: "alice", Email: "alice@example.com", Password: "12345"},
		"empty":           {},
	}

	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, apierr := f.users.Signup(req)
			require.NotNil(t, apierr)
			assert.Equal(t, 400, apierr.Code())
			assert.IsType(t, &apierror.StructuredError{}, apierr)
		})
	}
}

func TestLogin(t *testing.T) {
	f := setup(t)
	aliceID := f.signup(t, "alice")

	resp, apierr := f.users.Login(&contract.LoginRequest{Email: "ALICE@example.com", Password: "password123"})
	require.Nil(t, apierr)
	assert.Equal(t, "Logged in successfully", resp.Message)
	assert.Equal(t, aliceID, resp.User.ID)

	data, err := f.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, aliceID, data.UserID)

	_, apierr = f.users.Login(&contract.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	assert.Equal(t, apierror.InvalidLoginError, apierr)

	_, apierr = f.users.Login(&contract.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.Equal(t, apierror.InvalidLoginError, apierr)
}

// ---- notes ----

func TestCreateNote(t *testing.T) {
	f := setup(t)
	aliceID := f.signup(t, "alice")

	note := f.create(t, aliceID, "  Title  ", "  body kept verbatim  ", "go", " notes ")
	assert.Equal(t, "Title", note.Title)
	assert.Equal(t, "  body kept verbatim  ", note.Content)
	assert.Equal(t, []string{"go", "notes"}, note.Tags)
	assert.Equal(t, aliceID, note.OwnerID)
	assert.Empty(t, note.SharedWith)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)

	untagged := f.create(t, aliceID, "t", "c")
	assert.NotNil(t, untagged.Tags)
	assert.Empty(t, untagged.Tags)
}

func TestCreateNote_Validation(t *testing.T) {
	f := setup(t)
	aliceID := f.signup(t, "alice")

	tests := map[string]*contract.NoteRequest{
		"missing title":   {Content: "c"},
		"blank title":     {Title: "   ", Content: "c"},
		"missing content": {Title: "t"},
		"duplicate tags":  {Title: "t", Content: "c", Tags: []string{"a", "a"}},
		"empty tag":       {Title: "t", Content: "c", Tags: []string{""}},
	}

	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, apierr := f.notes.CreateNote(aliceID, req)
			require.NotNil(t, apierr)
			assert.Equal(t, 400, apierr.Code())
		})
	}
}

func TestAccessControl(t *testing.T) {
	f := setup(t)
	aliceID := f.signup(t, "alice")
	bobID := f.signup(t, "bob")

	note := f.create(t, aliceID, "Alice's note", "private")

	_, apierr := f.notes.GetNoteByID(bobID, note.ID)
	assert.Equal(t, apierror.AccessDeniedError, apierr)

	_, apierr = f.notes.UpdateNote(bobID, note.ID, &contract.UpdateNoteRequest{Title: ptr("hijacked")})
	assert.Equal(t, apierror.AccessDeniedError, apierr)

	assert.Equal(t, apierror.AccessDeniedError, f.notes.DeleteNote(bobID, note.ID))

	_, apierr = f.notes.ShareNote(bobID, note.ID, &contract.ShareNoteRequest{Username: "bob"})
	assert.Equal(t, apierror.AccessDeniedError, apierr)

	_, apierr = f.notes.GetNoteByID(aliceID, note.ID+1)
	assert.Equal(t, apierror.NoteNotFoundError, apierr)

	got, apierr := f.notes.GetNoteByID(aliceID, note.ID)
	require.Nil(t, apierr)
	assert.Equal(t, "Alice's note", got.Title)
}

func TestShareNote(t *testing.T) {
	f := setup(t)
	aliceID := f.signup(t, "alice")
	bobID := f.signup(t, "bob")
	f.signup(t, "carol")

	note := f.create(t, aliceID, "Shared", "content")

	shared, apierr := f.notes.ShareNote(aliceID, note.ID, &contract.ShareNoteRequest{Username: "bob"})
	require.Nil(t, apierr)
	assert.Equal(t, []string{strconv.FormatInt(bobID, 10)}, shared.SharedWith)
	assert.NotEqual(t, note.UpdatedAt, shared.UpdatedAt)

	// Bob can read but not modify
	got, apierr := f.notes.GetNoteByID(bobID, note.ID)
	require.Nil(t, apierr)
	assert.Equal(t, "Shared", got.Title)

	_, apierr = f.notes.UpdateNote(bobID, note.ID, &contract.UpdateNoteRequest{Title: ptr("mine")})
	assert.Equal(t, apierror.AccessDeniedError, apierr)
	assert.Equal(t, apierror.AccessDeniedError, f.notes.DeleteNote(bobID, note.ID))

	visible, apierr := f.notes.GetVisibleNotes(bobID)
	require.Nil(t, apierr)
	assert.Equal(t, []int64{note.ID}, noteIDs(visible))

	_, apierr = f.notes.ShareNote(aliceID, note.ID, &contract.ShareNoteRequest{Username: "bob"})
	assert.Equal(t, apierror.AlreadySharedError, apierr)

	_, apierr = f.notes.ShareNote(aliceID, note.ID, &contract.ShareNoteRequest{Username: "alice"})
	assert.Equal(t, apierror.ShareWithOwnerError, apierr)

	_, apierr = f.notes.ShareNote(aliceID, note.ID, &contract.ShareNoteRequest{Username: "nobody"})
	assert.Equal(t, apierror.UserNotFoundError, apierr)

	_, apierr = f.notes.ShareNote(aliceID, note.ID+1, &contract.ShareNoteRequest{Username: "carol"})
	assert.Equal(t, apierror.NoteNotFoundError, apierr)

	_, apierr = f.notes.ShareNote(aliceID, note.ID, &contract.ShareNoteRequest{})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())

	shared, apierr = f.notes.ShareNote(aliceID, note.ID, &contract.ShareNoteRequest{Username: " carol "})
	require.Nil(t, apierr)
	assert.Len(t, shared.SharedWith, 2)
}

func TestUpdateNote(t *testing.T) {
	f := setup(t)
	aliceID := f.signup(t, "alice")
	note := f.create(t, aliceID, "Title", "Content", "a", "b")

	// Nothing to change keeps the update time
	same, apierr := f.notes.UpdateNote(aliceID, note.ID, &contract.UpdateNoteRequest{Title: ptr(""), Content: nil})
	require.Nil(t, apierr)
	assert.Equal(t, note.UpdatedAt, same.UpdatedAt)
	assert.Equal(t, "Title", same.Title)

	updated, apierr := f.notes.UpdateNote(aliceID, note.ID, &contract.UpdateNoteRequest{Title: ptr("New title")})
	require.Nil(t, apierr)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "Content", updated.Content)
	assert.Equal(t, []string{"a", "b"}, updated.Tags)
	assert.Equal(t, note.CreatedAt, updated.CreatedAt)
	assert.NotEqual(t, note.UpdatedAt, updated.UpdatedAt)

	cleared, apierr := f.notes.UpdateNote(aliceID, note.ID, &contract.UpdateNoteRequest{Tags: []string{}})
	require.Nil(t, apierr)
	assert.Empty(t, cleared.Tags)

	got, apierr := f.notes.GetNoteByID(aliceID, note.ID)
	require.Nil(t, apierr)
	assert.Equal(t, "New title", got.Title)
	assert.Empty(t, got.Tags)

	_, apierr = f.notes.UpdateNote(aliceID, note.ID, &contract.UpdateNoteRequest{Tags: []string{"x", "x"}})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())

	_, apierr = f.notes.UpdateNote(aliceID, note.ID+1, &contract.UpdateNoteRequest{Title: ptr("x")})
	assert.Equal(t, apierror.NoteNotFoundError, apierr)
}

func TestDeleteNote(t *testing.T) {
	f := setup(t)
	aliceID := f.signup(t, "alice")
	bobID := f.signup(t, "bob")
	note := f.create(t, aliceID, "Title", "Content")

	_, apierr := f.notes.ShareNote(aliceID, note.ID, &contract.ShareNoteRequest{Username: "bob"})
	require.Nil(t, apierr)

	assert.Nil(t, f.notes.DeleteNote(aliceID, note.ID))
	assert.Equal(t, apierror.NoteNotFoundError, f.notes.DeleteNote(aliceID, note.ID))

	_, apierr = f.notes.GetNoteByID(bobID, note.ID)
	assert.Equal(t, apierror.NoteNotFoundError, apierr)

	visible, apierr := f.notes.GetVisibleNotes(bobID)
	require.Nil(t, apierr)
	assert.Empty(t, visible)
}

func TestGetVisibleNotes_Order(t *testing.T) {
	f := setup(t)
	aliceID := f.signup(t, "alice")

	first := f.create(t, aliceID, "first", "c")
	second := f.create(t, aliceID, "second", "c")

	visible, apierr := f.notes.GetVisibleNotes(aliceID)
	require.Nil(t, apierr)
	assert.Equal(t, []int64{second.ID, first.ID}, noteIDs(visible))

	_, apierr = f.notes.UpdateNote(aliceID, first.ID, &contract.UpdateNoteRequest{Content: ptr("edited")})
	require.Nil(t, apierr)

	visible, apierr = f.notes.GetVisibleNotes(aliceID)
	require.Nil(t, apierr)
	assert.Equal(t, []int64{first.ID, second.ID}, noteIDs(visible))
}

func TestSearchNotes(t *testing.T) {
	f := setup(t)
	aliceID := f.signup(t, "alice")
	bobID := f.signup(t, "bob")

	target := f.create(t, aliceID, "Test Note", "This is unique searchable content")
	f.create(t, aliceID, "Other note", "Different content entirely")
	f.create(t, bobID, "Bob's unique note", "searchable but private")

	results, apierr := f.notes.SearchNotes(aliceID, "unique searchable")
	require.Nil(t, apierr)
	assert.Equal(t, []int64{target.ID}, noteIDs(results))

	results, apierr = f.notes.SearchNotes(aliceID, "the of")
	require.Nil(t, apierr)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	results, apierr = f.notes.SearchNotes(aliceID, "content -unique")
	require.Nil(t, apierr)
	require.Len(t, results, 1)
	assert.Equal(t, "Other note", results[0].Title)

	_, apierr = f.notes.SearchNotes(aliceID, "   ")
	assert.Equal(t, apierror.MissingSearchQueryError, apierr)
}

func TestSearchNotes_Unicode(t *testing.T) {
	f := setup(t)
	aliceID := f.signup(t, "alice")

	target := f.create(t, aliceID, "Ärger im Büro", "ПРИВЕТ мир")
	f.create(t, aliceID, "Other note", "Different content entirely")

	for _, q := range []string{"ärger", "привет", "ÄRGER", "Привет мир"} {
		results, apierr := f.notes.SearchNotes(aliceID, q)
		require.Nil(t, apierr)
		assert.Equal(t, []int64{target.ID}, noteIDs(results), "query %q", q)
	}
}
