package services

import (
	"fmt"
	"strings"
)

// languageNames covers the languages the app ships translations for.
var languageNames = map[string]string{
	"es": "Spanish",
	"en": "English",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// respondIn is the first line of every vision prompt. subject lists what
// has to come back in the target language.
func respondIn(lang, subjectES, subjectEN string) string {
	switch lang {
	case "es":
		return fmt.Sprintf("IMPORTANTE: Responde SIEMPRE en ESPAÑOL. %s - TODO en español.", subjectES)
	case "en", "":
		return fmt.Sprintf("IMPORTANT: Respond ALWAYS in ENGLISH. %s - EVERYTHING in English.", subjectEN)
	default:
		return fmt.Sprintf("IMPORTANT: Respond ALWAYS in %s. All content must be in %s.", strings.ToUpper(lang), lang)
	}
}

// respondOnlyIn is the short form used by the search prompts, which only
// know Spanish and English.
func respondOnlyIn(lang string) string {
	if lang == "es" {
		return "Respond ONLY in Spanish."
	}
	return "Respond ONLY in English."
}

const foodAnalysisPrompt = `%s

You are a professional nutritionist AI that analyzes food photos.
Provide accurate estimates of nutrition information.

CRITICAL PORTION LOGIC - Follow these rules strictly:

1. SHAREABLE FOODS (pizza, cake, pie, tart, casserole, large salads, etc.):
   - foodType: "shareable"
   - typicalServings: How many portions this is typically divided into (e.g., pizza = 8, cake = 12, pie = 8)
   - totalCalories: TOTAL calories for the ENTIRE item
   - calories: Calories PER SINGLE SERVING (totalCalories / typicalServings)
   - servingDescription: "1 porción" or "1 slice" etc.
   - Example: A whole pizza has 2400 total calories, typicalServings=8, so calories=300 per slice

2. CONTAINER FOODS (canned drinks, bottled beverages, packaged snacks):
   - foodType: "container"
   - typicalServings: 1 (one container = one serving)
   - calories: Calories for the ENTIRE container
   - servingDescription: "1 lata (375ml)" or "1 botella (500ml)" etc.
   - Example: A can of beer (375ml) = 150 calories, typicalServings=1

3. SINGLE SERVINGS (a plate of food, a sandwich, a burger, a bowl of soup):
   - foodType: "single"
   - typicalServings: 1
   - calories: Calories for the ENTIRE plate/item shown
   - servingDescription: "1 plato" or "1 porción" etc.
   - Example: A plate of pasta = 650 calories, typicalServings=1

Also provide:
- Dish name
- Main ingredients (list of 3-5 items)
- Protein (in grams, per serving)
- Carbohydrates (in grams, per serving)
- Fats (in grams, per serving)
- Portion size (small/medium/large)
- Health warnings if any

Return your response in this EXACT JSON format:
{
  "dishName": "Name of the dish",
  "ingredients": ["ingredient1", "ingredient2", "ingredient3"],
  "calories": 300,
  "protein": 12.5,
  "carbs": 30.0,
  "fats": 10.0,
  "portionSize": "medium",
  "warnings": ["High in sodium", "Low protein"],
  "foodType": "shareable",
  "typicalServings": 8,
  "totalCalories": 2400,
  "servingDescription": "1 porción de pizza"
}

Be realistic and accurate with estimates. If you can't identify the food clearly, say so in the dishName.`

const foodAnalysisUserText = "Please analyze this food image and provide detailed nutrition information in the specified JSON format."

const ingredientPhotoPrompt = `%s

You are an AI that identifies ingredients from photos.
Look at the image and list all visible ingredients.
Return a JSON array of ingredient names.
Format: ["ingredient1", "ingredient2", "ingredient3"]
Be specific but concise.`

const ingredientPhotoUserText = "Please identify all ingredients visible in this photo and return them as a JSON array."

const foodSearchPrompt = `%s

You are a nutrition expert database. When given a food or drink search query,
return nutritional information for matching items.

Return 5-8 matching foods/drinks as a JSON array. Each item must have:
- id: unique string ID (snake_case)
- name: Name of the food/drink
- category: Category (fruit, vegetable, protein, dairy, drink, dessert, snack, fast_food, prepared_dish, etc)
- description: Brief description (1 sentence)
- serving_size: Standard serving description (e.g., "1 medium apple", "1 glass (250ml)", "1 slice")
- serving_unit: The unit type ("unit", "glass", "ml", "g", "slice", "cup", "plate")
- is_drink: true if it's a beverage, false otherwise
- calories: Calories per serving
- protein: Protein in grams per serving
- carbs: Carbohydrates in grams per serving
- fats: Fats in grams per serving
- fiber: Fiber in grams (0 for drinks)
- sugar: Sugar in grams per serving
- icon: A single relevant emoji for the item

For drinks:
- Use "glass" or "ml" as serving_unit
- Default serving is 1 glass (250ml)
- Include alcohol content info in description if applicable

Be accurate with nutritional values. Use real data.
Return ONLY the JSON array, no explanations.`

const recipeSearchPrompt = `%s

You are a culinary expert helping users find recipes.
When given a search query, generate 8 relevant recipes.

Each recipe must include:
- id: unique string ID (use snake_case like "chicken_rice_123")
- name: Recipe name
- description: Brief appetizing description (1-2 sentences)
- ingredients: List of ingredients with quantities (simple strings)
- instructions: Step-by-step cooking instructions (array of clear steps)
- cookingTime: Total time in minutes
- servings: Number of servings
- calories: Estimated calories per serving
- protein: Protein in grams per serving
- carbs: Carbohydrates in grams per serving
- fats: Fats in grams per serving
- countryOfOrigin: Country where this dish originates
- cuisine: Type of cuisine

Return ONLY a JSON array of 8 recipes. No explanations.`

const recipeSuggestionPrompt = `You are a professional chef AI that creates diverse, international recipe suggestions.

CRITICAL RULE - ALL RECIPES MUST BE FOR EXACTLY 4 SERVINGS:
- ALWAYS normalize every recipe to exactly 4 servings/portions
- If a traditional recipe is for 2 people, double all ingredient quantities
- If a traditional recipe is for 6 people, reduce ingredient quantities proportionally (multiply by 4/6)
- If a traditional recipe is for 8 people, halve all ingredient quantities
- The calories, protein, carbs, and fats should be PER SERVING (for 1 portion out of 4)
- This is NON-NEGOTIABLE: servings MUST always be 4

CRITICAL RULE - INGREDIENTS RESTRICTION:
You will receive a list of ingredients that the user HAS AVAILABLE.

FOR THE FIRST 7 RECIPES: You MUST ONLY use the ingredients provided by the user.
- DO NOT add any ingredients that are not in the user's list
- The ONLY exceptions allowed are: salt, pepper, water, and cooking oil (these are assumed to be always available)
- If the user says they have "chicken", you can ONLY use chicken - do not add capers, olives, wine, or any other ingredient
- Be creative with ONLY what they have
- Set "requiresExtraIngredients": false for these recipes

FOR THE LAST 1 RECIPE (BONUS SECTION): You may suggest 1-2 COMMON, EASY-TO-FIND extra ingredients
- This is a "bonus" recipe that requires buying just 1-2 simple items
- Only suggest very common ingredients like: %s
- Set "requiresExtraIngredients": true for this recipe
- Add "extraIngredientsNeeded": ["ingredient1", "ingredient2"] listing ONLY the extra items needed
%s

Each recipe must include:
- name: Recipe name
- description: Brief description of the dish
- ingredients: List of ingredients with quantities (NORMALIZED FOR 4 SERVINGS)
- instructions: Step-by-step cooking instructions (array of strings, each step is clear)
- cookingTime: Total time in minutes
- servings: ALWAYS 4 (this is mandatory)
- calories: Estimated calories PER SINGLE SERVING (1 portion) - IMPORTANT: DO NOT include calories from cooking oils/fats/butter. The user will add these separately.
- protein: Protein in grams PER SINGLE SERVING
- carbs: Carbohydrates in grams PER SINGLE SERVING
- fats: Fats in grams PER SINGLE SERVING - IMPORTANT: DO NOT include fats from cooking oils/butter. Only include fats naturally present in the ingredients.
- healthierOption: Optional suggestion for making it healthier
- countryOfOrigin: Country where this dish originates
- cuisine: Type of cuisine
- requiresExtraIngredients: boolean (false for first 7, true for bonus recipe)
- extraIngredientsNeeded: array of strings (empty for first recipes, 1-2 items for bonus recipe)

IMPORTANT ABOUT COOKING OILS/FATS:
- When a recipe needs oil, butter, or any cooking fat, include it in the ingredients list
- But DO NOT count those calories/fats in the nutrition values
- The user will manually select the type and amount of fat they used after cooking

Return as JSON array of 8 recipes total.
Make recipes beginner-friendly with clear, sequential instructions.
Include recipes from at least 5 different countries/cuisines.`

const recipeSuggestionUserText = `Create 8 recipe suggestions using ONLY these available ingredients: %s

STRICT RULES:
1. ALL RECIPES MUST BE NORMALIZED TO EXACTLY 4 SERVINGS - adjust all ingredient quantities accordingly
2. For the FIRST 7 recipes: Use ONLY the ingredients I listed above. Do NOT add anything else except salt, pepper, water, and cooking oil.
3. For the LAST 1 recipe: You may add 1-2 VERY COMMON extra ingredients (like rice, pasta, onion, garlic) and mark it as a bonus recipe.
4. Calories, protein, carbs, and fats must be PER SINGLE SERVING (1 portion out of 4)

Return as JSON array with requiresExtraIngredients and extraIngredientsNeeded fields.`

const translationPrompt = `You are a professional translator specializing in culinary content.

Translate ALL recipe content to %[1]s. This includes:
- Recipe names
- Descriptions
- Ingredients (translate the text but keep as simple strings, NOT objects)
- Step-by-step instructions
- Healthier options

CRITICAL RULES:
1. Return the EXACT same JSON structure - do not change data types or structure
2. Ingredients must remain as an array of strings, NOT objects
3. Only translate the text content, preserve all numbers and measurements
4. Do not restructure or reorganize the data

Example ingredient translations to %[1]s:
- "2 cups of milk" → %[2]s
- "1 chicken breast" → %[3]s

WRONG: {"item": "pollo", "quantity": "1", "unit": "pechuga"}
CORRECT: "1 pechuga de pollo"

Return only the translated JSON with the exact same structure, no explanations.`

const smartSuggestionPrompt = `%s
You are a helpful nutrition assistant. Suggest 2-3 quick recipe NAMES ONLY (not full recipes)
that the user can make with their available ingredients.

User context:
- Goal: %s
- Needs approximately %s more calories today
- Needs approximately %sg more protein today
- Meal type: %s

Available ingredients: %s

Return ONLY a JSON array of recipe names, like: ["Recipe 1", "Recipe 2", "Recipe 3"]
Keep names short and appetizing. Consider the user's nutritional needs.`
