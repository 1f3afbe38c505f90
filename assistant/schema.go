package assistant

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
)

// stageTools declares the protocol's function tools on run creation. The
// parameter schemas are reflected from the same structs Apply decodes into,
// so the declared contract and the parsing code cannot drift apart.
func stageTools() []openai.AssistantToolUnionParam {
	segmentSchema := schemaFor[segmentArgs]()
	tools := []struct {
		name        string
		description string
		params      map[string]interface{}
	}{
		{toolAbout, "Record the article's classification and length targets.", schemaFor[aboutArgs]()},
		{toolExposition, "Record the exposition segment.", segmentSchema},
		{toolConflict, "Record the conflict segment.", segmentSchema},
		{toolRising, "Record the rising-action segment.", segmentSchema},
		{toolClimax, "Record the climax segment.", segmentSchema},
		{toolFalling, "Record the falling-action segment.", segmentSchema},
		{toolResolution, "Record the resolution segment.", segmentSchema},
		{toolAssets, "Record the final title, summary and image description.", schemaFor[assetsArgs]()},
	}

	out := make([]openai.AssistantToolUnionParam, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.AssistantToolUnionParam{
			OfFunction: &openai.FunctionToolParam{
				Function: openai.FunctionDefinitionParam{
					Name:        t.name,
					Description: openai.String(t.description),
					Parameters:  openai.FunctionParameters(t.params),
				},
			},
		})
	}
	return out
}

func schemaFor[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	return m
}
