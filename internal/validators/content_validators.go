package validators

// BlogValidator provides validation for blog fields
type BlogValidator struct{}

// ValidateBlogCreation validates all required fields for creating a blog
func (v *BlogValidator) ValidateBlogCreation(title, slug, content string) []error {
	errors := []error{}

	if err := ValidateRequired(title, "title"); err != nil {
		errors = append(errors, err)
	} else if err := ValidateStringLength(title, "title", 1, MaxTitleLength); err != nil {
		errors = append(errors, err)
	}

	if err := ValidateSlug(slug, "slug"); err != nil {
		errors = append(errors, err)
	}

	if err := ValidateRequired(content, "content"); err != nil {
		errors = append(errors, err)
	}

	return errors
}

// ValidateBlogUpdate validates only the fields present in a partial update
func (v *BlogValidator) ValidateBlogUpdate(title, slug, content *string) []error {
	errors := []error{}

	if title != nil {
		if err := ValidateRequired(*title, "title"); err != nil {
			errors = append(errors, err)
		} else if err := ValidateStringLength(*title, "title", 1, MaxTitleLength); err != nil {
			errors = append(errors, err)
		}
	}
	if slug != nil {
		if err := ValidateSlug(*slug, "slug"); err != nil {
			errors = append(errors, err)
		}
	}
	if content != nil {
		if err := ValidateRequired(*content, "content"); err != nil {
			errors = append(errors, err)
		}
	}

	return errors
}

// CategoryValidator provides validation for category fields
type CategoryValidator struct{}

// ValidateCategory validates the name and slug of a category
func (v *CategoryValidator) ValidateCategory(name, slug string) []error {
	errors := []error{}

	if err := ValidateRequired(name, "name"); err != nil {
		errors = append(errors, err)
	} else if err := ValidateStringLength(name, "name", 1, MaxNameLength); err != nil {
		errors = append(errors, err)
	}

	if err := ValidateSlug(slug, "slug"); err != nil {
		errors = append(errors, err)
	}

	return errors
}

// FAQValidator provides validation for FAQ entries
type FAQValidator struct{}

// ValidateFAQ validates a question/answer pair
func (v *FAQValidator) ValidateFAQ(question, answer string) []error {
	errors := []error{}

	if err := ValidateRequired(question, "question"); err != nil {
		errors = append(errors, err)
	}
	if err := ValidateRequired(answer, "answer"); err != nil {
		errors = append(errors, err)
	}

	return errors
}

// InformationValidator provides validation for site information pages
type InformationValidator struct{}

// ValidateInformation validates the title and body of an information page
func (v *InformationValidator) ValidateInformation(title, content string) []error {
	errors := []error{}

	if err := ValidateRequired(title, "title"); err != nil {
		errors = append(errors, err)
	} else if err := ValidateStringLength(title, "title", 1, MaxTitleLength); err != nil {
		errors = append(errors, err)
	}

	if err := ValidateRequired(content, "content"); err != nil {
		errors = append(errors, err)
	}

	return errors
}
