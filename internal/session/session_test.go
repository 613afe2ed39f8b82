package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/nest/internal/project"
)

func TestSetActiveStream_ReleasesPrevious(t *testing.T) {
	s := newTestSession(t)

	first := &countingStream{}
	second := &countingStream{}
	require.NoError(t, s.SetActiveStream(first))
	require.NoError(t, s.SetActiveStream(second))

	assert.Equal(t, 1, first.closes)
	assert.Equal(t, 0, second.closes)
	assert.Same(t, second, s.ActiveStream())

	require.NoError(t, s.Close())
	assert.Equal(t, 1, second.closes)
	require.NoError(t, s.Close())
	assert.Equal(t, 1, second.closes)
}

func TestSetActiveStream_ReportsPreviousCloseError(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SetActiveStream(&countingStream{err: errors.New("flush failed")}))

	next := &countingStream{}
	err := s.SetActiveStream(next)
	require.Error(t, err)
	assert.Same(t, next, s.ActiveStream())
}

func TestAction(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, "", s.Action())
	s.SetAction("gmake")
	assert.Equal(t, "gmake", s.Action())
}

func TestRunString(t *testing.T) {
	s := newTestSession(t)

	res, err := s.RunString("return 1+1")
	require.NoError(t, err)
	assert.Equal(t, "2", res.Value)

	res, err = s.RunString("return true")
	require.NoError(t, err)
	assert.Equal(t, "true", res.Value)

	_, err = s.RunString("error('boom')")
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
	assert.True(t, IsKind(err, KindScript))

	s.SetAction("gmake")
	_, err = s.RunString("error('boom')")
	assert.Equal(t, "gmake: boom", err.Error())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		build func(s *Session)
		want  string
	}{
		{
			name: "valid",
			build: func(s *Session) {
				sln := project.NewSolution("Game")
				prj := project.New("Engine")
				prj.Fields.Set(project.Language, "C#")
				sln.AddProject(prj)
				s.AddSolution(sln)
			},
		},
		{
			name: "solution without projects",
			build: func(s *Session) {
				s.AddSolution(project.NewSolution("Empty"))
			},
			want: "no projects defined for solution 'Empty'",
		},
		{
			name: "project without language",
			build: func(s *Session) {
				sln := project.NewSolution("Game")
				sln.AddProject(project.New("Engine"))
				s.AddSolution(sln)
			},
			want: "no language defined for project 'Engine'",
		},
		{
			name: "first violation wins",
			build: func(s *Session) {
				sln := project.NewSolution("Game")
				sln.AddProject(project.New("Engine"))
				s.AddSolution(sln)
				s.AddSolution(project.NewSolution("Empty"))
			},
			want: "no language defined for project 'Engine'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			tt.build(s)

			err := s.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.True(t, IsKind(err, KindValidation))
		})
	}
}

func TestErrorKinds(t *testing.T) {
	assert.Equal(t, "script", KindScript.String())
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "traversal", KindTraversal.String())
	assert.Equal(t, "loader", KindLoader.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
