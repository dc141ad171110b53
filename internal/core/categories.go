package core

// builtinCategories is the fixed category set shipped with the application.
// It is re-seeded on every schema sync, so edits here propagate to existing
// installs while user-created categories stay untouched.
var builtinCategories = []Category{
	{CategoryID: "1", Name: "Food & Dining", Icon: "restaurant", Color: "#e74c3c", IsActive: "1", UserID: BuiltinUserID},
	{CategoryID: "2", Name: "Groceries", Icon: "shopping_cart", Color: "#27ae60", IsActive: "1", UserID: BuiltinUserID},
	{CategoryID: "3", Name: "Transport", Icon: "directions_bus", Color: "#2980b9", IsActive: "1", UserID: BuiltinUserID},
	{CategoryID: "4", Name: "Housing", Icon: "home", Color: "#8e44ad", IsActive: "1", UserID: BuiltinUserID},
	{CategoryID: "5", Name: "Utilities", Icon: "bolt", Color: "#f39c12", IsActive: "1", UserID: BuiltinUserID},
	{CategoryID: "6", Name: "Health", Icon: "local_hospital", Color: "#16a085", IsActive: "1", UserID: BuiltinUserID},
	{CategoryID: "7", Name: "Entertainment", Icon: "movie", Color: "#d35400", IsActive: "1", UserID: BuiltinUserID},
	{CategoryID: "8", Name: "Shopping", Icon: "shopping_bag", Color: "#c0392b", IsActive: "1", UserID: BuiltinUserID},
	{CategoryID: "9", Name: "Education", Icon: "school", Color: "#2c3e50", IsActive: "1", UserID: BuiltinUserID},
	{CategoryID: "10", Name: "Travel", Icon: "flight", Color: "#1abc9c", IsActive: "1", UserID: BuiltinUserID},
	{CategoryID: "11", Name: "Other", Icon: "category", Color: "#7f8c8d", IsActive: "1", UserID: BuiltinUserID},
}

// BuiltinCategories returns a copy of the built-in category definitions.
func BuiltinCategories() []Category {
	out := make([]Category, len(builtinCategories))
	copy(out, builtinCategories)
	return out
}
