package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/hashicorp/terraform-plugin-framework-validators/float64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/ankek/terraform-provider-sketch/internal/interfaces"
	"github.com/ankek/terraform-provider-sketch/internal/renderer"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ resource.Resource = &ImageResource{}
var _ resource.ResourceWithConfigure = &ImageResource{}
var _ resource.ResourceWithImportState = &ImageResource{}

func NewImageResource() resource.Resource {
	return &ImageResource{
		generator: NewImageGenerator(nil),
	}
}

// ImageResource defines the resource implementation.
type ImageResource struct {
	generator interfaces.ImageGenerator
}

// ImageResourceModel describes the resource data model.
type ImageResourceModel struct {
	ID           types.String  `tfsdk:"id"`
	ScenePath    types.String  `tfsdk:"scene_path"`
	SceneJSON    types.String  `tfsdk:"scene_json"`
	SceneURL     types.String  `tfsdk:"scene_url"`
	OutputPath   types.String  `tfsdk:"output_path"`
	Format       types.String  `tfsdk:"format"`
	Scale        types.Float64 `tfsdk:"scale"`
	Padding      types.Float64 `tfsdk:"padding"`
	UseEngine    types.Bool    `tfsdk:"use_engine"`
	ElementCount types.Int64   `tfsdk:"element_count"`
	Width        types.Float64 `tfsdk:"width"`
	Height       types.Float64 `tfsdk:"height"`
	SHA256       types.String  `tfsdk:"sha256"`
}

func (r *ImageResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_image"
}

func (r *ImageResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Renders a diagram scene to a file. The file is re-rendered when any input changes and removed on destroy.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Resource identifier, equal to output_path",
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"scene_path": schema.StringAttribute{
				MarkdownDescription: "Path to a `.excalidraw`, `.json` or `.hcl` scene file.",
				Optional:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
					stringvalidator.ExactlyOneOf(path.MatchRoot("scene_json"), path.MatchRoot("scene_url")),
				},
			},
			"scene_json": schema.StringAttribute{
				MarkdownDescription: "Inline scene document with an `elements` array.",
				Optional:            true,
			},
			"scene_url": schema.StringAttribute{
				MarkdownDescription: "HTTP(S) URL of a scene document.",
				Optional:            true,
			},
			"output_path": schema.StringAttribute{
				MarkdownDescription: "Path where the rendered output will be saved.",
				Required:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
				},
			},
			"format": schema.StringAttribute{
				MarkdownDescription: "Output format: 'svg', 'png', 'pdf' or 'json'. Default is 'svg'.",
				Optional:            true,
				Validators: []validator.String{
					stringvalidator.OneOf(renderer.SupportedFormats()...),
				},
			},
			"scale": schema.Float64Attribute{
				MarkdownDescription: "Device pixels per scene unit, between 0.1 and 10. Default is 1.",
				Optional:            true,
				Validators: []validator.Float64{
					float64validator.Between(0.1, 10),
				},
			},
			"padding": schema.Float64Attribute{
				MarkdownDescription: "Margin around the scene in scene units. Defaults to the provider's default_padding, or 40.",
				Optional:            true,
				Validators: []validator.Float64{
					float64validator.AtLeast(0),
				},
			},
			"use_engine": schema.BoolAttribute{
				MarkdownDescription: "Rasterize PNG output with the provider's external engine. Default is false.",
				Optional:            true,
			},
			"element_count": schema.Int64Attribute{
				MarkdownDescription: "Number of drawable elements in the scene.",
				Computed:            true,
			},
			"width": schema.Float64Attribute{
				MarkdownDescription: "Output width in device units. Zero for json.",
				Computed:            true,
			},
			"height": schema.Float64Attribute{
				MarkdownDescription: "Output height in device units. Zero for json.",
				Computed:            true,
			},
			"sha256": schema.StringAttribute{
				MarkdownDescription: "Hex SHA-256 of the written file.",
				Computed:            true,
			},
		},
	}
}

func (r *ImageResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	if req.ProviderData == nil {
		return
	}

	cfg, ok := req.ProviderData.(*ProviderConfig)
	if !ok {
		resp.Diagnostics.AddError(
			"Unexpected Resource Configure Type",
			fmt.Sprintf("Expected *provider.ProviderConfig, got: %T", req.ProviderData),
		)
		return
	}

	r.generator = NewImageGenerator(cfg)
}

func (r *ImageResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	var data ImageResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	r.render(ctx, &data, &resp.Diagnostics)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *ImageResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	var data ImageResourceModel

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// Check if output file still exists
	content, err := os.ReadFile(data.OutputPath.ValueString())
	if os.IsNotExist(err) {
		tflog.Warn(ctx, "Rendered file is gone, removing from state", map[string]interface{}{
			"output_path": data.OutputPath.ValueString(),
		})
		resp.State.RemoveResource(ctx)
		return
	}
	if err != nil {
		resp.Diagnostics.AddError("Failed to read rendered file", err.Error())
		return
	}

	sum := fileDigest(content)
	if !data.SHA256.IsNull() && data.SHA256.ValueString() != sum {
		tflog.Warn(ctx, "Rendered file changed outside Terraform, removing from state", map[string]interface{}{
			"output_path": data.OutputPath.ValueString(),
		})
		resp.State.RemoveResource(ctx)
		return
	}
	data.SHA256 = types.StringValue(sum)

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *ImageResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	var data ImageResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// Re-render with the updated configuration
	r.render(ctx, &data, &resp.Diagnostics)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *ImageResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	var data ImageResourceModel

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if err := os.Remove(data.OutputPath.ValueString()); err != nil && !os.IsNotExist(err) {
		resp.Diagnostics.AddError("Failed to remove rendered file", err.Error())
	}
}

func (r *ImageResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	resource.ImportStatePassthroughID(ctx, path.Root("id"), req, resp)
	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("output_path"), req.ID)...)
}

// render runs the generator for data and fills in the computed attributes
func (r *ImageResource) render(ctx context.Context, data *ImageResourceModel, diags *diag.Diagnostics) {
	cfg := renderConfigFrom(data.ScenePath, data.SceneJSON, data.SceneURL, data.OutputPath, data.Format, data.Scale, data.Padding, data.UseEngine)

	result, err := r.generator.Generate(ctx, cfg)
	if err != nil {
		addRenderError(diags, err)
		return
	}

	data.ID = types.StringValue(result.OutputPath)
	data.ElementCount = types.Int64Value(result.ElementCount)
	data.Width = types.Float64Value(result.Width)
	data.Height = types.Float64Value(result.Height)
	data.SHA256 = types.StringValue(fileDigest(result.Content))
}

func fileDigest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
