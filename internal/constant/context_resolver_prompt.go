package constant

// RetrievalContextPromptV1 is appended to the system prompt when catalog
// chunks were found for the question.
const RetrievalContextPromptV1 = `

IMPORTANT: Use the following GSU-specific information to provide accurate, context-aware responses:

%s

When answering questions:
- Use the provided context to give accurate, specific information about GSU
- If the context contains relevant information, prioritize it over general knowledge
- If the context doesn't contain the answer, acknowledge this and provide the best general answer you can
- Pay attention to the conversation history - remember what the user has mentioned earlier (buildings, topics, courses, etc.)
- If the user refers to something mentioned earlier (like "that building" or "those classes"), use the conversation history to understand what they're referring to`
