package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/aet-studio-backend/internal/data/repos"
	"github.com/yungbote/aet-studio-backend/internal/data/repos/testutil"
	types "github.com/yungbote/aet-studio-backend/internal/domain"
)

func TestApplyStudentInputDefaultsAndValidation(t *testing.T) {
	st, err := applyStudentInput(&types.Student{TeacherID: "t"}, StudentInput{
		Name:              "  Omar ",
		PreferredLanguage: "both",
		LearningGoals:     []string{" requests help ", ""},
	})
	if err != nil {
		t.Fatalf("applyStudentInput: %v", err)
	}
	if st.Name != "Omar" || st.AETLevel != types.AETDeveloping || st.CommunicationLevel != types.CommunicationVerbal {
		t.Fatalf("defaults: %+v", st)
	}
	if st.PreferredLanguage != types.LanguageBilingual || len(st.LearningGoals) != 1 || st.LearningGoals[0] != "requests help" {
		t.Fatalf("language/goals: %+v", st)
	}
	for name, in := range map[string]StudentInput{
		"no name":  {},
		"bad aet":  {Name: "a", AETLevel: "mastered"},
		"bad comm": {Name: "a", CommunicationLevel: "semaphore"},
		"bad lang": {Name: "a", PreferredLanguage: "fr"},
	} {
		if _, err := applyStudentInput(&types.Student{}, in); !errors.Is(err, ErrInvalidStudent) {
			t.Fatalf("%s: want ErrInvalidStudent got=%v", name, err)
		}
	}
}

func TestStudentServiceScopesToTeacher(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewStudentService(tx, log, repos.NewStudentRepo(tx, log), repos.NewResourceRepo(tx, log))
	ctx := context.Background()

	st, err := svc.Create(ctx, "teacher-a", StudentInput{Name: "Omar", PrimaryInterest: "dinosaurs"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	testutil.SeedResource(t, ctx, tx, "teacher-a", st.ID, "Snack time")

	if _, err := svc.Get(ctx, "teacher-b", st.ID); !errors.Is(err, types.ErrStudentNotFound) {
		t.Fatalf("Get(other teacher): want ErrStudentNotFound got=%v", err)
	}
	updated, err := svc.Update(ctx, "teacher-a", st.ID, StudentInput{Name: "Omar", PrimaryInterest: "trains", AETLevel: "established"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.PrimaryInterest != "trains" || updated.AETLevel != types.AETEstablished {
		t.Fatalf("Update: %+v", updated)
	}
	if err := svc.Delete(ctx, "teacher-b", st.ID); !errors.Is(err, types.ErrStudentNotFound) {
		t.Fatalf("Delete(other teacher): want ErrStudentNotFound got=%v", err)
	}
	if err := svc.Delete(ctx, "teacher-a", st.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if list, _ := svc.List(ctx, "teacher-a"); len(list) != 0 {
		t.Fatalf("List after delete: %+v", list)
	}
}
