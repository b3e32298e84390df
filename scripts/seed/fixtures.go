package main

import (
	"fmt"
	"great_awareness_backend/internal/model"
	"os"

	"gopkg.in/yaml.v3"
)

type Fixtures struct {
	Users     []UserFixture     `yaml:"users"`
	Contents  []ContentFixture  `yaml:"contents"`
	Questions []QuestionFixture `yaml:"questions"`
}

type UserFixture struct {
	Email     string         `yaml:"email"`
	Username  string         `yaml:"username"`
	Password  string         `yaml:"password"`
	Role      model.UserRole `yaml:"role"`
	FirstName string         `yaml:"first_name"`
	LastName  string         `yaml:"last_name"`
	County    string         `yaml:"county"`
}

type ContentFixture struct {
	Author   string `yaml:"author"`
	Title    string `yaml:"title"`
	Topic    string `yaml:"topic"`
	Body     string `yaml:"body"`
	Featured bool   `yaml:"featured"`
}

type QuestionFixture struct {
	Author    string `yaml:"author"`
	Title     string `yaml:"title"`
	Category  string `yaml:"category"`
	Content   string `yaml:"content"`
	Anonymous bool   `yaml:"anonymous"`
}

func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes fixtures and checks that every author is declared.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	users := make(map[string]bool, len(f.Users))
	for _, u := range f.Users {
		switch u.Role {
		case "", model.RoleUser, model.RoleAdmin, model.RoleContentCreator:
		default:
			return nil, fmt.Errorf("user %s: unknown role %q", u.Username, u.Role)
		}
		users[u.Username] = true
	}
	for _, c := range f.Contents {
		if !users[c.Author] {
			return nil, fmt.Errorf("content %q: unknown author %q", c.Title, c.Author)
		}
	}
	for _, q := range f.Questions {
		if !users[q.Author] {
			return nil, fmt.Errorf("question %q: unknown author %q", q.Title, q.Author)
		}
	}
	return &f, nil
}
