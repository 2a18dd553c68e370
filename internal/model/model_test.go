package model

import (
	"errors"
	"testing"
)

func TestParseRow_Normalizes(t *testing.T) {
	c, err := ParseRow([]string{"  cs101 ", " Intro to Programming ", " cs100", "", "math120 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Number != "CS101" {
		t.Errorf("number = %q, want CS101", c.Number)
	}
	if c.Name != "Intro to Programming" {
		t.Errorf("name = %q", c.Name)
	}
	if len(c.Prerequisites) != 2 || c.Prerequisites[0] != "CS100" || c.Prerequisites[1] != "MATH120" {
		t.Errorf("prerequisites = %v, want [CS100 MATH120]", c.Prerequisites)
	}
}

func TestParseRow_Malformed(t *testing.T) {
	cases := [][]string{
		nil,
		{},
		{"CS101"},
		{"   ", "Name"},
		{"CS101", "  "},
	}
	for _, fields := range cases {
		if _, err := ParseRow(fields); !errors.Is(err, ErrMalformedRow) {
			t.Errorf("ParseRow(%v) err = %v, want ErrMalformedRow", fields, err)
		}
	}
}

func TestValidNumber(t *testing.T) {
	valid := []string{"CS101", "MATH120", "CSCI2270"}
	for _, n := range valid {
		if !ValidNumber(n) {
			t.Errorf("ValidNumber(%q) = false, want true", n)
		}
	}
	invalid := []string{"", "101", "CS", "CS 101", "cs101", "CS-101"}
	for _, n := range invalid {
		if ValidNumber(n) {
			t.Errorf("ValidNumber(%q) = true, want false", n)
		}
	}
}

func TestCourseString(t *testing.T) {
	c := Course{Number: "CS101", Name: "Intro"}
	if got := c.String(); got != "CS101, Intro" {
		t.Errorf("String() = %q", got)
	}
	if c.HasPrerequisites() {
		t.Errorf("HasPrerequisites() = true for course without prereqs")
	}
}
